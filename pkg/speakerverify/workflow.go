package speakerverify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gjwgit/azspeech2txt/pkg/audio/pcm"
	"github.com/gjwgit/azspeech2txt/pkg/audio/wav"
	"github.com/gjwgit/azspeech2txt/pkg/azspeech"
)

const (
	// SupportedRegion is the only region serving the verification API for
	// standard Speech resources.
	SupportedRegion = "westus"

	// EnrollmentSamples is the number of recordings a profile is trained on.
	EnrollmentSamples = 3

	// DefaultCleanupTimeout bounds the profile deletion, which runs even
	// after the caller's context is done.
	DefaultCleanupTimeout = 15 * time.Second
)

// API is the subset of the verification REST API the workflow drives.
// *azspeech.VerificationService implements it.
type API interface {
	CreateProfile(ctx context.Context, locale string) (*azspeech.Profile, error)
	Enroll(ctx context.Context, profileID string, audio []byte) (*azspeech.Enrollment, error)
	Verify(ctx context.Context, profileID string, audio []byte) (*azspeech.Verification, error)
	DeleteProfile(ctx context.Context, profileID string) error
}

// Sample is a passphrase recording. When PCM is nil the WAV file at Path
// is decoded; it must be 16 kHz 16-bit mono PCM.
type Sample struct {
	Path string
	PCM  []byte
}

// SampleFile returns the sample stored at path.
func SampleFile(path string) Sample {
	return Sample{Path: path}
}

// Result is the verification outcome.
type Result struct {
	Decision azspeech.Decision `json:"recognitionResult" yaml:"recognition_result"`
	Score    float64           `json:"score" yaml:"score"`
}

// Accepted reports whether the target voice matched the enrolled one.
func (r *Result) Accepted() bool {
	return r.Decision == azspeech.Accept
}

// String returns the single-line rendering.
func (r *Result) String() string {
	return Render(r, false)
}

// Verifier runs the enrollment-verification workflow against one Speech
// resource.
type Verifier struct {
	api            API
	region         string
	locale         string
	cleanupTimeout time.Duration
	logger         *slog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLocale sets the locale profiles are created with.
func WithLocale(locale string) Option {
	return func(v *Verifier) {
		v.locale = locale
	}
}

// WithCleanupTimeout bounds the final profile deletion.
func WithCleanupTimeout(d time.Duration) Option {
	return func(v *Verifier) {
		v.cleanupTimeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// New returns a Verifier for the resource in region.
func New(api API, region string, opts ...Option) *Verifier {
	v := &Verifier{
		api:            api,
		region:         region,
		locale:         azspeech.DefaultLocale,
		cleanupTimeout: DefaultCleanupTimeout,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifySpeaker enrolls a temporary profile with the enrollment samples,
// verifies target against it and deletes the profile.
//
// All samples are decoded before the first remote call. Once the profile
// exists it is deleted exactly once, whatever the outcome; a failed
// deletion is logged and never replaces the returned result or error.
func (v *Verifier) VerifySpeaker(ctx context.Context, enrollment []Sample, target Sample) (*Result, error) {
	if len(enrollment) != EnrollmentSamples {
		return nil, &Error{
			Kind:    KindInvalidArgument,
			Message: fmt.Sprintf("exactly %d enrollment samples are required, got %d", EnrollmentSamples, len(enrollment)),
		}
	}
	if region := strings.ToLower(strings.TrimSpace(v.region)); region != SupportedRegion {
		return nil, &Error{Kind: KindUnsupportedRegion, Region: v.region}
	}

	enrollPCM := make([][]byte, len(enrollment))
	for i, s := range enrollment {
		data, err := s.load()
		if err != nil {
			return nil, err
		}
		enrollPCM[i] = data
	}
	targetPCM, err := target.load()
	if err != nil {
		return nil, err
	}

	log := v.logger.With("run", uuid.NewString())

	profile, err := v.api.CreateProfile(ctx, v.locale)
	if err != nil {
		cerr := classify(err, KindProfileCreationFailed, "create profile", "")
		if _, replied := azspeech.AsError(err); !replied && errors.Is(cerr, ErrNetwork) {
			log.Warn("speakerverify: profile creation outcome unknown; a profile may be left on the service", "error", err)
		}
		return nil, cerr
	}
	log.Debug("speakerverify: profile created", "profile", profile.ProfileID, "locale", v.locale)

	defer v.cleanup(ctx, log, profile.ProfileID)

	for i, data := range enrollPCM {
		path := enrollment[i].Path
		e, err := v.api.Enroll(ctx, profile.ProfileID, data)
		if err != nil {
			return nil, classify(err, KindEnrollmentRejected, "enroll "+path, path)
		}
		log.Debug("speakerverify: sample enrolled",
			"path", path,
			"duration", pcm.L16Mono16K.Duration(int64(len(data))),
			"status", e.EnrollmentStatus,
			"remaining", e.RemainingEnrollmentsCount)
	}

	res, err := v.api.Verify(ctx, profile.ProfileID, targetPCM)
	if err != nil {
		return nil, classify(err, KindVerificationCallFailed, "verify "+target.Path, target.Path)
	}
	if res.Score < 0 || res.Score > 1 {
		return nil, &Error{
			Kind:    KindVerificationCallFailed,
			Message: fmt.Sprintf("score %v out of range", res.Score),
		}
	}

	log.Debug("speakerverify: verified", "decision", res.RecognitionResult, "score", res.Score)
	return &Result{Decision: res.RecognitionResult, Score: res.Score}, nil
}

// cleanup deletes the profile. It outlives a cancelled ctx so an
// interrupted run does not leak the profile.
func (v *Verifier) cleanup(ctx context.Context, log *slog.Logger, profileID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.cleanupTimeout)
	defer cancel()

	if err := v.api.DeleteProfile(ctx, profileID); err != nil {
		cerr := &Error{Kind: KindCleanupFailed, Op: "delete profile " + profileID, Err: err}
		log.Warn("speakerverify: "+cerr.Error(), "profile", profileID)
		return
	}
	log.Debug("speakerverify: profile deleted", "profile", profileID)
}

func (s Sample) load() ([]byte, error) {
	if s.PCM != nil {
		return s.PCM, nil
	}
	clip, err := wav.DecodeFile(s.Path)
	if err != nil {
		return nil, &Error{Kind: KindSampleNotFound, Path: s.Path, Err: err}
	}
	if err := clip.Require(16000, 1, 16); err != nil {
		return nil, &Error{Kind: KindSampleNotFound, Path: s.Path, Err: err}
	}
	return clip.PCM, nil
}

// classify maps a client error to a workflow error. Service rejections and
// malformed responses become kind; transport failures, including 429/5xx
// left after the retry budget, become KindNetwork.
func classify(err error, kind Kind, op, path string) error {
	if apiErr, ok := azspeech.AsError(err); ok {
		if apiErr.Retryable() {
			return &Error{Kind: KindNetwork, Op: op, Path: path, Err: err}
		}
		return &Error{Kind: kind, Path: path, Message: apiErr.Message, Err: err}
	}
	if errors.Is(err, azspeech.ErrInvalidResponse) {
		return &Error{Kind: kind, Path: path, Err: err}
	}
	return &Error{Kind: KindNetwork, Op: op, Path: path, Err: err}
}
