package domain

// ActivityType identifies the kind of exercise tracked in journey statistics.
type ActivityType string

const (
	ActivityMultipleChoice ActivityType = "MULTIPLE_CHOICE"
	ActivityListeningEasy  ActivityType = "LISTENING_EASY"
	ActivityListeningHard  ActivityType = "LISTENING_HARD"
	ActivityTyping         ActivityType = "TYPING"
	ActivityBlitz          ActivityType = "BLITZ"

	// ActivityExposed is the pseudo-activity recorded the first time a word
	// is shown to the learner, before any answer exists for it.
	ActivityExposed ActivityType = "EXPOSED"
)

func (a ActivityType) String() string { return string(a) }

func (a ActivityType) IsValid() bool {
	switch a {
	case ActivityMultipleChoice, ActivityListeningEasy, ActivityListeningHard,
		ActivityTyping, ActivityBlitz, ActivityExposed:
		return true
	}
	return false
}

// AnswerableActivities lists the activity types a journey round can be drawn
// for. ActivityExposed is excluded: it is bookkeeping, not an exercise.
func AnswerableActivities() []ActivityType {
	return []ActivityType{
		ActivityMultipleChoice,
		ActivityListeningEasy,
		ActivityListeningHard,
		ActivityTyping,
		ActivityBlitz,
	}
}

// StorageMode selects which persistence backend the stores run against.
type StorageMode string

const (
	StorageModeLocal  StorageMode = "LOCAL"
	StorageModeRemote StorageMode = "REMOTE"
)

func (m StorageMode) String() string { return string(m) }

func (m StorageMode) IsValid() bool {
	switch m {
	case StorageModeLocal, StorageModeRemote:
		return true
	}
	return false
}

// RoundState tracks one journey round through its lifecycle.
type RoundState string

const (
	RoundStateIdle           RoundState = "IDLE"
	RoundStateSampling       RoundState = "SAMPLING"
	RoundStateAwaitingAnswer RoundState = "AWAITING_ANSWER"
	RoundStateRecording      RoundState = "RECORDING"
)

func (s RoundState) String() string { return string(s) }
