package azspeech

import "time"

// Decision is the outcome of a verification.
type Decision string

const (
	// Accept means the audio matches the enrolled voice.
	Accept Decision = "Accept"
	// Reject means the audio does not match the enrolled voice.
	Reject Decision = "Reject"
)

// Valid reports whether d is one of the decisions the service returns.
func (d Decision) Valid() bool {
	return d == Accept || d == Reject
}

// EnrollmentStatus is the training state of a profile.
type EnrollmentStatus string

const (
	EnrollmentStatusEnrolling EnrollmentStatus = "Enrolling"
	EnrollmentStatusTraining  EnrollmentStatus = "Training"
	EnrollmentStatusEnrolled  EnrollmentStatus = "Enrolled"
)

// Profile is a text-dependent verification profile.
type Profile struct {
	ProfileID                 string           `json:"profileId" yaml:"profile_id"`
	Locale                    string           `json:"locale" yaml:"locale"`
	EnrollmentStatus          EnrollmentStatus `json:"enrollmentStatus,omitempty" yaml:"enrollment_status,omitempty"`
	CreatedDateTime           *time.Time       `json:"createdDateTime,omitempty" yaml:"created,omitempty"`
	LastUpdatedDateTime       *time.Time       `json:"lastUpdatedDateTime,omitempty" yaml:"last_updated,omitempty"`
	EnrollmentsCount          int              `json:"enrollmentsCount" yaml:"enrollments_count"`
	EnrollmentsLength         float64          `json:"enrollmentsLength,omitempty" yaml:"enrollments_length,omitempty"`
	EnrollmentsSpeechLength   float64          `json:"enrollmentsSpeechLength,omitempty" yaml:"enrollments_speech_length,omitempty"`
	RemainingEnrollmentsCount int              `json:"remainingEnrollmentsCount" yaml:"remaining_enrollments_count"`
	ModelVersion              string           `json:"modelVersion,omitempty" yaml:"model_version,omitempty"`
}

// Enrollment is the profile state returned after one enrollment upload.
type Enrollment struct {
	ProfileID                 string           `json:"profileId" yaml:"profile_id"`
	EnrollmentStatus          EnrollmentStatus `json:"enrollmentStatus" yaml:"enrollment_status"`
	EnrollmentsCount          int              `json:"enrollmentsCount" yaml:"enrollments_count"`
	EnrollmentsLength         float64          `json:"enrollmentsLength,omitempty" yaml:"enrollments_length,omitempty"`
	EnrollmentsSpeechLength   float64          `json:"enrollmentsSpeechLength,omitempty" yaml:"enrollments_speech_length,omitempty"`
	RemainingEnrollmentsCount int              `json:"remainingEnrollmentsCount" yaml:"remaining_enrollments_count"`
	AudioLength               float64          `json:"audioLength,omitempty" yaml:"audio_length,omitempty"`
	AudioSpeechLength         float64          `json:"audioSpeechLength,omitempty" yaml:"audio_speech_length,omitempty"`
}

// Verification is the result of a verify call.
type Verification struct {
	RecognitionResult Decision `json:"recognitionResult" yaml:"recognition_result"`
	Score             float64  `json:"score" yaml:"score"`
}

// Translation is one target-language rendering of a translated text.
type Translation struct {
	Text string `json:"text" yaml:"text"`
	To   string `json:"to" yaml:"to"`
}

// DetectedLanguage is set when the source language was auto-detected.
type DetectedLanguage struct {
	Language string  `json:"language" yaml:"language"`
	Score    float64 `json:"score" yaml:"score"`
}

// TranslateResult holds all translations of one input text.
type TranslateResult struct {
	DetectedLanguage *DetectedLanguage `json:"detectedLanguage,omitempty" yaml:"detected_language,omitempty"`
	Translations     []Translation     `json:"translations" yaml:"translations"`
}
