package models

import "strings"

// Device is the fixed classroom-equipment vocabulary. Backend activity
// records reference devices by these raw keys; the UI shows German labels.
type Device string

const (
	DeviceComputers   Device = "computers"
	DeviceTablets     Device = "tablets"
	DeviceHandouts    Device = "handouts"
	DeviceBlocks      Device = "blocks"
	DeviceElectronics Device = "electronics"
	DeviceStationery  Device = "stationery"
)

var deviceLabels = map[Device]string{
	DeviceComputers:   "Computer",
	DeviceTablets:     "Tablet",
	DeviceHandouts:    "Ausdrucke",
	DeviceBlocks:      "Bausteine",
	DeviceElectronics: "Elektronikbauteile",
	DeviceStationery:  "Schreibwaren",
}

// Label returns the German display label, or "" for an unknown device
func (d Device) Label() string {
	return deviceLabels[d]
}

// ParseDevice normalizes a raw backend value and matches it against the
// vocabulary. Unknown values report ok=false and are meant to be dropped.
func ParseDevice(raw string) (Device, bool) {
	d := Device(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := deviceLabels[d]
	return d, ok
}

// Topic is the computational-thinking topic vocabulary
type Topic string

const (
	TopicDecomposition Topic = "decomposition"
	TopicPatterns      Topic = "patterns"
	TopicAbstraction   Topic = "abstraction"
	TopicAlgorithms    Topic = "algorithms"
)

var topicLabels = map[Topic]string{
	TopicDecomposition: "Problemzerlegung",
	TopicPatterns:      "Muster",
	TopicAbstraction:   "Abstraktion",
	TopicAlgorithms:    "Algorithmen",
}

// Label returns the German display label, or "" for an unknown topic
func (t Topic) Label() string {
	return topicLabels[t]
}

// ParseTopic normalizes a raw backend value and matches it against the
// vocabulary
func ParseTopic(raw string) (Topic, bool) {
	t := Topic(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := topicLabels[t]
	return t, ok
}

// EffortLevel classifies the mental load or physical energy of an activity
type EffortLevel string

const (
	EffortLow    EffortLevel = "low"
	EffortMedium EffortLevel = "medium"
	EffortHigh   EffortLevel = "high"
)

// Label returns the German display label
func (e EffortLevel) Label() string {
	switch e {
	case EffortLow:
		return "niedrig"
	case EffortMedium:
		return "mittel"
	case EffortHigh:
		return "hoch"
	}
	return ""
}

// ParseEffortLevel accepts the English key, the German label or a numeric
// level as sent by different backend versions
func ParseEffortLevel(raw string) (EffortLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low", "niedrig", "1":
		return EffortLow, true
	case "medium", "mittel", "2":
		return EffortMedium, true
	case "high", "hoch", "3":
		return EffortHigh, true
	}
	return "", false
}
