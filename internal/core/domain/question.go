package domain

// InputKind identifies the expected shape of a raw answer
type InputKind string

const (
	InputAge       InputKind = "age"
	InputBodyFat   InputKind = "body_fat"
	InputScale1to5 InputKind = "scale_1_5"
	InputYesNo     InputKind = "yes_no"
	InputFrequency InputKind = "exercise_frequency"
	InputFreeText  InputKind = "free_text"
)

// QuestionKind identifies a question slot in the questionnaire
type QuestionKind string

const (
	QuestionAdamYesNo      QuestionKind = "adam_yes_no"
	QuestionAMSScale       QuestionKind = "ams_scale"
	QuestionAge            QuestionKind = "lifestyle_age"
	QuestionBodyFat        QuestionKind = "lifestyle_body_fat"
	QuestionSleepQuality   QuestionKind = "lifestyle_sleep_quality"
	QuestionStressLevel    QuestionKind = "lifestyle_stress_level"
	QuestionExerciseFreq   QuestionKind = "lifestyle_exercise_frequency"
	QuestionAlcoholTobacco QuestionKind = "lifestyle_alcohol_tobacco"
)

// InputKindFor maps a question kind to the input shape its answers
// must satisfy. Unknown kinds fall back to free text.
func InputKindFor(q QuestionKind) InputKind {
	switch q {
	case QuestionAdamYesNo, QuestionAlcoholTobacco:
		return InputYesNo
	case QuestionAMSScale, QuestionSleepQuality, QuestionStressLevel:
		return InputScale1to5
	case QuestionAge:
		return InputAge
	case QuestionBodyFat:
		return InputBodyFat
	case QuestionExerciseFreq:
		return InputFrequency
	default:
		return InputFreeText
	}
}
