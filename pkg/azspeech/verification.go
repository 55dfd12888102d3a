package azspeech

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gjwgit/azspeech2txt/pkg/audio/pcm"
)

// VerificationPath is the path of the text-dependent verification API.
const VerificationPath = "/speaker/verification/v2.0/text-dependent"

// DefaultLocale is the locale profiles are created with.
const DefaultLocale = "en-US"

// VerificationService provides text-dependent speaker verification.
//
// Enrollment and verification audio is raw 16 kHz 16-bit mono PCM, without
// a WAV header.
type VerificationService struct {
	client *Client
}

// newVerificationService creates a new verification service.
func newVerificationService(client *Client) *VerificationService {
	return &VerificationService{client: client}
}

func (s *VerificationService) url(parts ...string) string {
	u := s.client.config.endpoint + VerificationPath
	for _, p := range parts {
		u += "/" + url.PathEscape(p)
	}
	return u
}

// CreateProfile creates an empty profile. An empty locale means
// DefaultLocale.
//
// A transport error or attempt timeout is not retried, since the service
// may have created a profile whose id never arrived.
func (s *VerificationService) CreateProfile(ctx context.Context, locale string) (*Profile, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	body, err := jsonPayload(map[string]string{"locale": locale})
	if err != nil {
		return nil, err
	}

	var resp Profile
	if err := s.client.http.requestNoReplay(ctx, http.MethodPost, s.url("profiles"), body, nil, &resp); err != nil {
		return nil, err
	}
	if resp.ProfileID == "" {
		return nil, fmt.Errorf("%w: no profileId in create response", ErrInvalidResponse)
	}
	return &resp, nil
}

// GetProfile returns a profile. A deleted or unknown profile fails with an
// error for which IsNotFound is true.
func (s *VerificationService) GetProfile(ctx context.Context, profileID string) (*Profile, error) {
	var resp Profile
	if err := s.client.http.request(ctx, http.MethodGet, s.url("profiles", profileID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListProfiles returns the profiles of the subscription.
func (s *VerificationService) ListProfiles(ctx context.Context) ([]Profile, error) {
	var resp struct {
		Profiles []Profile `json:"profiles"`
	}
	if err := s.client.http.request(ctx, http.MethodGet, s.url("profiles"), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Profiles, nil
}

// DeleteProfile deletes a profile.
func (s *VerificationService) DeleteProfile(ctx context.Context, profileID string) error {
	return s.client.http.request(ctx, http.MethodDelete, s.url("profiles", profileID), nil, nil, nil)
}

// Enroll adds one passphrase recording to a profile.
func (s *VerificationService) Enroll(ctx context.Context, profileID string, audio []byte) (*Enrollment, error) {
	var resp Enrollment
	err := s.client.http.request(ctx, http.MethodPost, s.url("profiles", profileID, "enrollments"), audioPayload(audio), nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Verify compares a passphrase recording with an enrolled profile.
func (s *VerificationService) Verify(ctx context.Context, profileID string, audio []byte) (*Verification, error) {
	var resp struct {
		RecognitionResult Decision `json:"recognitionResult"`
		Score             *float64 `json:"score"`
	}
	err := s.client.http.request(ctx, http.MethodPost, s.url("profiles", profileID, "verify"), audioPayload(audio), nil, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.RecognitionResult.Valid() {
		return nil, fmt.Errorf("%w: recognitionResult %q", ErrInvalidResponse, resp.RecognitionResult)
	}
	if resp.Score == nil {
		return nil, fmt.Errorf("%w: no score in verify response", ErrInvalidResponse)
	}
	return &Verification{RecognitionResult: resp.RecognitionResult, Score: *resp.Score}, nil
}

// ListPhrases returns the passphrases accepted for locale.
func (s *VerificationService) ListPhrases(ctx context.Context, locale string) ([]string, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	var resp struct {
		Value []struct {
			PassPhrase string `json:"passPhrase"`
		} `json:"value"`
	}
	if err := s.client.http.request(ctx, http.MethodGet, s.url("phrases", locale), nil, nil, &resp); err != nil {
		return nil, err
	}

	phrases := make([]string, 0, len(resp.Value))
	for _, v := range resp.Value {
		phrases = append(phrases, v.PassPhrase)
	}
	return phrases, nil
}

func audioPayload(audio []byte) *payload {
	return &payload{contentType: pcm.L16Mono16K.ContentType(), data: audio}
}
