package domain

type PoseTag string

const (
	PoseFront PoseTag = "FRONT"
	PoseClose PoseTag = "CLOSE"
	PoseFar   PoseTag = "FAR"
	PoseLeft  PoseTag = "LEFT"
	PoseRight PoseTag = "RIGHT"
)

func (p PoseTag) Valid() bool {
	switch p {
	case PoseFront, PoseClose, PoseFar, PoseLeft, PoseRight:
		return true
	default:
		return false
	}
}

type PoseStep struct {
	Index int
	Label string
	Pose  PoseTag
}

// The enrollment sequence is fixed; sessions walk it strictly in index order.
var enrollmentSteps = [...]PoseStep{
	{Index: 0, Label: "Look straight at the camera", Pose: PoseFront},
	{Index: 1, Label: "Move slowly closer", Pose: PoseClose},
	{Index: 2, Label: "Step back a little", Pose: PoseFar},
	{Index: 3, Label: "Turn your head to the left", Pose: PoseLeft},
	{Index: 4, Label: "Turn your head to the right", Pose: PoseRight},
}

const StepCount = len(enrollmentSteps)

func EnrollmentSteps() []PoseStep {
	steps := make([]PoseStep, StepCount)
	copy(steps, enrollmentSteps[:])
	return steps
}

func StepAt(index int) (PoseStep, bool) {
	if index < 0 || index >= StepCount {
		return PoseStep{}, false
	}

	return enrollmentSteps[index], true
}

func (s PoseStep) IsLast() bool {
	return s.Index == StepCount-1
}

// Ordinal is the one-based position shown to users ("2/5").
func (s PoseStep) Ordinal() int {
	return s.Index + 1
}
