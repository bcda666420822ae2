package threat

import (
	"time"
)

// Type is the category of a threat event.
type Type string

const (
	Malware      Type = "Malware"
	Phishing     Type = "Phishing"
	DDoS         Type = "DDoS"
	Botnet       Type = "Botnet"
	Ransomware   Type = "Ransomware"
	SQLInjection Type = "SQL Injection"
	BruteForce   Type = "Brute Force"
)

// Types is the closed set of threat types, in display order.
var Types = []Type{Malware, Phishing, DDoS, Botnet, Ransomware, SQLInjection, BruteForce}

// Severity is ordered Low < Medium < High < Critical. The order drives
// marker radius and color only, records are never sorted by it.
type Severity string

const (
	Low      Severity = "Low"
	Medium   Severity = "Medium"
	High     Severity = "High"
	Critical Severity = "Critical"
)

// Severities is the closed set of severities, in ascending order.
var Severities = []Severity{Low, Medium, High, Critical}

// Record is one synthetic threat event. Records are values and are never
// mutated after the generator creates them.
type Record struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Severity  Severity  `json:"severity"`
	Country   string    `json:"country"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
}

// IsAlerting reports whether a record of this severity triggers the alert cue.
func (s Severity) IsAlerting() bool {
	return s == High || s == Critical
}

// Rank returns the position of s in Severities, or -1 for unknown values.
func (s Severity) Rank() int {
	for i, v := range Severities {
		if v == s {
			return i
		}
	}
	return -1
}

// ValidType reports whether v names a member of Types.
func ValidType(v string) bool {
	for _, t := range Types {
		if string(t) == v {
			return true
		}
	}
	return false
}

// ValidSeverity reports whether v names a member of Severities.
func ValidSeverity(v string) bool {
	return Severity(v).Rank() >= 0
}
