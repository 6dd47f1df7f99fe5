package domain

import (
	"fmt"
	"time"
)

type IdentificationOutcome struct {
	Matched bool
	// Subject is the matched name, or the server's hint when nothing matched.
	Subject    string
	Distance   *float64
	Confidence *float64
	Detail     string
}

func (o IdentificationOutcome) DistanceLabel() string {
	if o.Distance == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *o.Distance)
}

type BiometricEstimate struct {
	Age             int
	Gender          string
	DominantEmotion string
}

type RegistrationSummary struct {
	Subject  string
	Message  string
	Rejected []string
}

type OutcomeKind string

const (
	OutcomeIdentification OutcomeKind = "identification"
	OutcomeAnalysis       OutcomeKind = "analysis"
	OutcomeRegistration   OutcomeKind = "registration"
	OutcomeFailure        OutcomeKind = "failure"
)

// Outcome is the latest result shown to the user. Exactly one payload matches Kind.
type Outcome struct {
	Kind           OutcomeKind
	Identification *IdentificationOutcome
	Analysis       *BiometricEstimate
	Registration   *RegistrationSummary
	Failure        string
	At             time.Time
}

func IdentificationResult(o IdentificationOutcome, at time.Time) *Outcome {
	return &Outcome{Kind: OutcomeIdentification, Identification: &o, At: at}
}

func AnalysisResult(e BiometricEstimate, at time.Time) *Outcome {
	return &Outcome{Kind: OutcomeAnalysis, Analysis: &e, At: at}
}

func RegistrationResult(s RegistrationSummary, at time.Time) *Outcome {
	return &Outcome{Kind: OutcomeRegistration, Registration: &s, At: at}
}

func FailureResult(err error, at time.Time) *Outcome {
	return &Outcome{Kind: OutcomeFailure, Failure: UserMessage(err), At: at}
}
