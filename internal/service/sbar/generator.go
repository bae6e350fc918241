package sbar

import (
	"fmt"
	"strings"

	"github.com/resqlink/dispatch-api/internal/model"
)

// Generator produces SBAR (Situation, Background, Assessment,
// Recommendation) pre-notification text for a hospital triage desk. It is a
// pure formatter: all fields are populated and consistent by the time the
// lifecycle manager hands a case over.
type Generator struct {
	serviceName string
}

func NewGenerator(serviceName string) *Generator {
	if serviceName == "" {
		serviceName = "Emergency Dispatch Service"
	}
	return &Generator{serviceName: serviceName}
}

// CallScript renders the script a dispatcher reads over the phone.
func (g *Generator) CallScript(c *model.Case, m *model.Member, d *model.Dispatcher) string {
	h := history(m)
	var b strings.Builder
	fmt.Fprintf(&b, "S — Situation\n")
	fmt.Fprintf(&b, "Good day, this is %s from %s.\n", d.FullName, g.serviceName)
	fmt.Fprintf(&b, "I am calling to pre-notify an incoming emergency patient.\n\n")
	fmt.Fprintf(&b, "B — Background\n")
	fmt.Fprintf(&b, "Patient: %s, %s, %s\n", c.PatientName, orUnknown(intStr(c.Age)), orUnknown(strVal(c.Sex)))
	fmt.Fprintf(&b, "Known conditions: %s\n", h.conditions)
	fmt.Fprintf(&b, "Medications: %s\n", h.medications)
	fmt.Fprintf(&b, "Allergies: %s\n\n", h.allergies)
	fmt.Fprintf(&b, "A — Assessment\n")
	fmt.Fprintf(&b, "Current condition: %s\n", c.EmergencyType)
	fmt.Fprintf(&b, "Transport method: %s\n", orUnknown(strVal(c.TransportMethod)))
	fmt.Fprintf(&b, "Estimated arrival: %d minutes\n", etaMinutes(c))
	fmt.Fprintf(&b, "Origin: %s\n\n", orUnknown(strVal(c.LocationText)))
	fmt.Fprintf(&b, "R — Recommendation\n")
	fmt.Fprintf(&b, "Requesting ER triage preparation.\n")
	fmt.Fprintf(&b, "Contact: %s\n", d.Phone)
	return b.String()
}

// Message renders the short form sent by SMS or WhatsApp.
func (g *Generator) Message(c *model.Case, m *model.Member, d *model.Dispatcher) string {
	h := history(m)
	status := c.EmergencyType
	if c.Notes != nil && *c.Notes != "" {
		status = *c.Notes
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SBAR PRE-NOTIFICATION\n")
	fmt.Fprintf(&b, "S: Incoming emergency patient\n")
	fmt.Fprintf(&b, "Name: %s\n", c.PatientName)
	fmt.Fprintf(&b, "Age/Sex: %s / %s\n", orUnknown(intStr(c.Age)), orUnknown(strVal(c.Sex)))
	fmt.Fprintf(&b, "Condition: %s\n\n", c.EmergencyType)
	fmt.Fprintf(&b, "B: History: %s\n", h.conditions)
	fmt.Fprintf(&b, "Meds: %s\n", h.medications)
	fmt.Fprintf(&b, "Allergies: %s\n\n", h.allergies)
	fmt.Fprintf(&b, "A: Status: %s\n", status)
	fmt.Fprintf(&b, "ETA: %d mins\n", etaMinutes(c))
	fmt.Fprintf(&b, "From: %s\n\n", orUnknown(strVal(c.LocationText)))
	fmt.Fprintf(&b, "R: Please prepare ER triage\n")
	fmt.Fprintf(&b, "Dispatcher: %s, %s\n", d.FullName, d.Phone)
	return b.String()
}

// Email renders the subject and body for email pre-notification.
func (g *Generator) Email(c *model.Case, m *model.Member, d *model.Dispatcher) (subject, body string) {
	h := history(m)
	subject = "SBAR Pre-Notification — Incoming Emergency Patient"
	var b strings.Builder
	fmt.Fprintf(&b, "S — Incoming emergency patient arriving shortly.\n\n")
	fmt.Fprintf(&b, "B — Background\n")
	fmt.Fprintf(&b, "Patient: %s, %s, %s\n", c.PatientName, orUnknown(intStr(c.Age)), orUnknown(strVal(c.Sex)))
	fmt.Fprintf(&b, "Known conditions: %s\n", h.conditions)
	fmt.Fprintf(&b, "Medications: %s\n", h.medications)
	fmt.Fprintf(&b, "Allergies: %s\n\n", h.allergies)
	fmt.Fprintf(&b, "A — Assessment\n")
	fmt.Fprintf(&b, "Current condition: %s\n", c.EmergencyType)
	fmt.Fprintf(&b, "Transport: %s\n", orUnknown(strVal(c.TransportMethod)))
	fmt.Fprintf(&b, "ETA: %d minutes\n", etaMinutes(c))
	fmt.Fprintf(&b, "Origin: %s\n\n", orUnknown(strVal(c.LocationText)))
	fmt.Fprintf(&b, "R — Request ER readiness and confirmation.\n")
	fmt.Fprintf(&b, "Dispatcher: %s, %s\n", d.FullName, d.Phone)
	return subject, b.String()
}

const noneReported = "None reported"

type medicalHistory struct {
	conditions  string
	medications string
	allergies   string
}

// history pulls the member's medical background. Members who have not
// consented to sharing their history read as "None reported" everywhere.
func history(m *model.Member) medicalHistory {
	h := medicalHistory{
		conditions:  noneReported,
		medications: noneReported,
		allergies:   noneReported,
	}
	if m == nil || !m.ConsentFlag {
		return h
	}
	if m.MedicalConditions != nil && *m.MedicalConditions != "" {
		h.conditions = *m.MedicalConditions
	}
	if m.Medications != nil && *m.Medications != "" {
		h.medications = *m.Medications
	}
	if m.Allergies != nil && *m.Allergies != "" {
		h.allergies = *m.Allergies
	}
	return h
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intStr(n *int) string {
	if n == nil {
		return ""
	}
	return fmt.Sprintf("%d", *n)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func etaMinutes(c *model.Case) int {
	if c.EstimatedETA == nil {
		return 0
	}
	return *c.EstimatedETA
}
