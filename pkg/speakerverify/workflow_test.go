package speakerverify_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/gjwgit/azspeech2txt/pkg/audio/wav"
	"github.com/gjwgit/azspeech2txt/pkg/azspeech"
	"github.com/gjwgit/azspeech2txt/pkg/speakerverify"
)

// fakeService emulates the text-dependent verification API. The "voice" of
// a recording is its first byte; a target matches when it shares the voice
// of every enrolled sample.
type fakeService struct {
	t *testing.T

	mu       sync.Mutex
	profiles map[string][][]byte
	nextID   int
	calls    map[string]int

	createStatus int
	createBody   string
	createDelay  time.Duration
	enrollFailAt int
	enrollStatus int
	enrollBody   string
	verifyStatus int
	verifyBody   string
	deleteStatus int
}

func newFakeService(t *testing.T) *fakeService {
	return &fakeService{
		t:        t,
		profiles: make(map[string][][]byte),
		calls:    make(map[string]int),
	}
}

func (f *fakeService) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeService) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Ocp-Apim-Subscription-Key") == "" {
		reply(w, http.StatusUnauthorized, `{"error":{"code":"401","message":"missing key"}}`)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, azspeech.VerificationPath+"/profiles")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	body, _ := io.ReadAll(r.Body)

	switch {
	case r.Method == http.MethodPost && rest == "":
		f.calls["create"]++
		if f.createStatus != 0 {
			reply(w, f.createStatus, f.createBody)
			return
		}
		f.nextID++
		id := "profile-" + strconv.Itoa(f.nextID)
		f.profiles[id] = nil
		if f.createDelay > 0 && f.calls["create"] == 1 {
			// The profile exists but the reply arrives too late.
			f.mu.Unlock()
			select {
			case <-r.Context().Done():
			case <-time.After(f.createDelay):
			}
			f.mu.Lock()
		}
		reply(w, http.StatusCreated, `{"profileId":"`+id+`","locale":"en-US","remainingEnrollmentsCount":3}`)

	case r.Method == http.MethodGet && len(parts) == 1:
		f.calls["get"]++
		if _, ok := f.profiles[parts[0]]; !ok {
			reply(w, http.StatusNotFound, `{"error":{"code":"NotFound","message":"Profile not found."}}`)
			return
		}
		reply(w, http.StatusOK, `{"profileId":"`+parts[0]+`"}`)

	case r.Method == http.MethodDelete && len(parts) == 1:
		f.calls["delete"]++
		if f.deleteStatus != 0 {
			reply(w, f.deleteStatus, "")
			return
		}
		delete(f.profiles, parts[0])
		w.WriteHeader(http.StatusNoContent)

	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "enrollments":
		f.calls["enroll"]++
		if ct := r.Header.Get("Content-Type"); ct != "audio/wav; codecs=audio/pcm; samplerate=16000" {
			f.t.Errorf("enroll Content-Type = %q", ct)
		}
		if f.enrollFailAt == f.calls["enroll"] {
			reply(w, f.enrollStatus, f.enrollBody)
			return
		}
		f.profiles[parts[0]] = append(f.profiles[parts[0]], body)
		n := len(f.profiles[parts[0]])
		status := "Enrolling"
		if n >= 3 {
			status = "Enrolled"
		}
		reply(w, http.StatusCreated, `{"profileId":"`+parts[0]+`","enrollmentStatus":"`+status+
			`","enrollmentsCount":`+strconv.Itoa(n)+`,"remainingEnrollmentsCount":`+strconv.Itoa(max(0, 3-n))+`}`)

	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "verify":
		f.calls["verify"]++
		if f.verifyStatus != 0 {
			reply(w, f.verifyStatus, f.verifyBody)
			return
		}
		decision, score := "Accept", 0.82
		for _, s := range f.profiles[parts[0]] {
			if len(s) == 0 || len(body) == 0 || s[0] != body[0] {
				decision, score = "Reject", 0.12
			}
		}
		reply(w, http.StatusOK, `{"recognitionResult":"`+decision+`","score":`+strconv.FormatFloat(score, 'f', -1, 64)+`}`)

	default:
		reply(w, http.StatusNotFound, "")
	}
}

func reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

type fixture struct {
	svc    *fakeService
	client *azspeech.Client
	dir    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	svc := newFakeService(t)
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)

	return &fixture{
		svc: svc,
		client: azspeech.NewClient("key",
			azspeech.WithRegion("westus"),
			azspeech.WithEndpoint(srv.URL),
			azspeech.WithBackoff(time.Millisecond)),
		dir: t.TempDir(),
	}
}

func (fx *fixture) verifier(region string) *speakerverify.Verifier {
	return speakerverify.New(fx.client.Verification, region)
}

// recording writes a 16 kHz mono WAV whose samples all carry voice.
func (fx *fixture) recording(t *testing.T, name string, voice byte) string {
	t.Helper()
	data := bytes.Repeat([]byte{voice, 0}, 1600)
	path := filepath.Join(fx.dir, name)
	if err := wav.EncodeFile(path, &wav.Clip{SampleRate: 16000, Channels: 1, BitDepth: 16, PCM: data}); err != nil {
		t.Fatal(err)
	}
	return path
}

func (fx *fixture) enrollment(t *testing.T, voice byte) []speakerverify.Sample {
	t.Helper()
	return []speakerverify.Sample{
		speakerverify.SampleFile(fx.recording(t, "a.wav", voice)),
		speakerverify.SampleFile(fx.recording(t, "b.wav", voice)),
		speakerverify.SampleFile(fx.recording(t, "c.wav", voice)),
	}
}

func (fx *fixture) assertCleanedUp(t *testing.T) {
	t.Helper()
	if c, d := fx.svc.count("create"), fx.svc.count("delete"); c != d {
		t.Errorf("created %d profile(s), deleted %d", c, d)
	}
	fx.svc.mu.Lock()
	defer fx.svc.mu.Unlock()
	if n := len(fx.svc.profiles); n != 0 {
		t.Errorf("%d profile(s) left on the service", n)
	}
}

func wantKind(t *testing.T, err error, kind speakerverify.Kind) *speakerverify.Error {
	t.Helper()
	e, ok := speakerverify.AsError(err)
	if !ok {
		t.Fatalf("error = %v, want *speakerverify.Error", err)
	}
	if e.Kind != kind {
		t.Fatalf("Kind = %v, want %v (%v)", e.Kind, kind, err)
	}
	return e
}

func TestVerifySpeaker_SameSpeaker(t *testing.T) {
	fx := newFixture(t)
	target := speakerverify.SampleFile(fx.recording(t, "a2.wav", 7))

	res, err := fx.verifier("westus").VerifySpeaker(context.Background(), fx.enrollment(t, 7), target)
	if err != nil {
		t.Fatalf("VerifySpeaker error: %v", err)
	}
	if res.Decision != azspeech.Accept || res.Score <= 0.5 || !res.Accepted() {
		t.Errorf("result = %+v, want Accept with score > 0.5", res)
	}

	fx.assertCleanedUp(t)
	_, err = fx.client.Verification.GetProfile(context.Background(), "profile-1")
	if !azspeech.IsNotFound(err) {
		t.Errorf("profile lookup after run: %v, want not found", err)
	}
	if fx.svc.count("enroll") != 3 || fx.svc.count("verify") != 1 {
		t.Errorf("calls = %v", fx.svc.calls)
	}
}

func TestVerifySpeaker_DifferentSpeaker(t *testing.T) {
	fx := newFixture(t)
	target := speakerverify.SampleFile(fx.recording(t, "x.wav", 9))

	res, err := fx.verifier("westus").VerifySpeaker(context.Background(), fx.enrollment(t, 7), target)
	if err != nil {
		t.Fatalf("VerifySpeaker error: %v", err)
	}
	if res.Decision != azspeech.Reject || res.Score > 0.5 {
		t.Errorf("result = %+v, want Reject with score <= 0.5", res)
	}
	fx.assertCleanedUp(t)
}

func TestVerifySpeaker_Idempotent(t *testing.T) {
	fx := newFixture(t)
	enrollment := fx.enrollment(t, 3)
	target := speakerverify.SampleFile(fx.recording(t, "t.wav", 3))
	v := fx.verifier("westus")

	first, err := v.VerifySpeaker(context.Background(), enrollment, target)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := v.VerifySpeaker(context.Background(), enrollment, target)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first.Decision != second.Decision || abs(first.Score-second.Score) > 1e-6 {
		t.Errorf("runs differ: %+v vs %+v", first, second)
	}
	if fx.svc.count("create") != 2 {
		t.Errorf("create calls = %d, want one profile per run", fx.svc.count("create"))
	}
	fx.assertCleanedUp(t)
}

func TestVerifySpeaker_Region(t *testing.T) {
	tests := []struct {
		region string
		ok     bool
	}{
		{"westus", true},
		{" WestUS ", true},
		{"eastus", false},
		{"westus2", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			fx := newFixture(t)
			target := speakerverify.SampleFile(fx.recording(t, "t.wav", 1))

			_, err := fx.verifier(tt.region).VerifySpeaker(context.Background(), fx.enrollment(t, 1), target)
			if tt.ok {
				if err != nil {
					t.Fatalf("VerifySpeaker error: %v", err)
				}
				return
			}
			if !errors.Is(err, speakerverify.ErrUnsupportedRegion) {
				t.Fatalf("error = %v, want ErrUnsupportedRegion", err)
			}
			if n := fx.svc.total(); n != 0 {
				t.Errorf("remote calls = %d, want 0", n)
			}
		})
	}
}

func TestVerifySpeaker_SampleCount(t *testing.T) {
	fx := newFixture(t)
	samples := fx.enrollment(t, 1)
	target := speakerverify.SampleFile(fx.recording(t, "t.wav", 1))

	for _, n := range []int{0, 2} {
		_, err := fx.verifier("westus").VerifySpeaker(context.Background(), samples[:n], target)
		if !errors.Is(err, speakerverify.ErrInvalidArgument) {
			t.Errorf("%d samples: error = %v, want ErrInvalidArgument", n, err)
		}
	}
	_, err := fx.verifier("westus").VerifySpeaker(context.Background(), append(samples, target), target)
	if !errors.Is(err, speakerverify.ErrInvalidArgument) {
		t.Errorf("4 samples: error = %v, want ErrInvalidArgument", err)
	}
	if n := fx.svc.total(); n != 0 {
		t.Errorf("remote calls = %d, want 0", n)
	}
}

func TestVerifySpeaker_MissingSample(t *testing.T) {
	fx := newFixture(t)
	samples := fx.enrollment(t, 1)
	missing := filepath.Join(fx.dir, "nope.wav")
	samples[1] = speakerverify.SampleFile(missing)
	target := speakerverify.SampleFile(fx.recording(t, "t.wav", 1))

	_, err := fx.verifier("westus").VerifySpeaker(context.Background(), samples, target)
	e := wantKind(t, err, speakerverify.KindSampleNotFound)
	if e.Path != missing {
		t.Errorf("Path = %q, want %q", e.Path, missing)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want it to wrap os.ErrNotExist", err)
	}
	fx.assertCleanedUp(t)
}

func TestVerifySpeaker_MissingTarget(t *testing.T) {
	fx := newFixture(t)
	missing := filepath.Join(fx.dir, "target.wav")

	_, err := fx.verifier("westus").VerifySpeaker(context.Background(), fx.enrollment(t, 1), speakerverify.SampleFile(missing))
	e := wantKind(t, err, speakerverify.KindSampleNotFound)
	if e.Path != missing {
		t.Errorf("Path = %q, want %q", e.Path, missing)
	}
	fx.assertCleanedUp(t)
}

func TestVerifySpeaker_BadAudio(t *testing.T) {
	fx := newFixture(t)

	notWAV := filepath.Join(fx.dir, "notes.wav")
	os.WriteFile(notWAV, []byte("these are not the samples you are looking for"), 0644)

	hiFi := filepath.Join(fx.dir, "hifi.wav")
	wav.EncodeFile(hiFi, &wav.Clip{SampleRate: 44100, Channels: 1, BitDepth: 16, PCM: make([]byte, 882)})

	tests := []struct {
		name  string
		path  string
		cause error
	}{
		{"not wav", notWAV, wav.ErrNotWAV},
		{"44.1 kHz", hiFi, wav.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := fx.enrollment(t, 1)
			samples[2] = speakerverify.SampleFile(tt.path)
			_, err := fx.verifier("westus").VerifySpeaker(context.Background(), samples, samples[0])

			e := wantKind(t, err, speakerverify.KindSampleNotFound)
			if e.Path != tt.path || !errors.Is(err, tt.cause) {
				t.Errorf("error = %v, want %v for %s", err, tt.cause, tt.path)
			}
			if !strings.Contains(err.Error(), tt.path) {
				t.Errorf("message %q should name the file", err)
			}
		})
	}
	if n := fx.svc.total(); n != 0 {
		t.Errorf("remote calls = %d, want 0", n)
	}
}

func TestVerifySpeaker_EnrollmentRejected(t *testing.T) {
	fx := newFixture(t)
	fx.svc.enrollFailAt = 2
	fx.svc.enrollStatus = http.StatusBadRequest
	fx.svc.enrollBody = `{"error":{"code":"InvalidRequest","message":"Audio is too noisy."}}`
	samples := fx.enrollment(t, 1)

	_, err := fx.verifier("westus").VerifySpeaker(context.Background(), samples, samples[0])
	e := wantKind(t, err, speakerverify.KindEnrollmentRejected)
	if e.Path != samples[1].Path || e.Message != "Audio is too noisy." {
		t.Errorf("error = %+v", e)
	}
	if !errors.Is(err, speakerverify.ErrEnrollmentRejected) {
		t.Error("errors.Is(err, ErrEnrollmentRejected) = false")
	}
	if fx.svc.count("enroll") != 2 || fx.svc.count("verify") != 0 {
		t.Errorf("calls = %v, want the run to stop at the rejected sample", fx.svc.calls)
	}
	fx.assertCleanedUp(t)
}

func TestVerifySpeaker_VerifyFailed(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"error status", http.StatusBadRequest, `{"error":{"code":"InvalidRequest","message":"Passphrase mismatch."}}`},
		{"error in 200 body", http.StatusOK, `{"error":{"message":"Passphrase mismatch."}}`},
		{"unknown decision", http.StatusOK, `{"recognitionResult":"Maybe","score":0.5}`},
		{"score out of range", http.StatusOK, `{"recognitionResult":"Accept","score":1.5}`},
		{"not json", http.StatusOK, `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t)
			fx.svc.verifyStatus = tt.status
			fx.svc.verifyBody = tt.body
			samples := fx.enrollment(t, 1)

			_, err := fx.verifier("westus").VerifySpeaker(context.Background(), samples, samples[0])
			wantKind(t, err, speakerverify.KindVerificationCallFailed)
			if !errors.Is(err, speakerverify.ErrVerificationCallFailed) {
				t.Error("errors.Is(err, ErrVerificationCallFailed) = false")
			}
			fx.assertCleanedUp(t)
		})
	}
}

func TestVerifySpeaker_ProfileCreationFailed(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		msg    string
	}{
		{"bad key", http.StatusUnauthorized, `{"error":{"code":"401","message":"Access denied due to invalid subscription key."}}`,
			"Access denied due to invalid subscription key."},
		{"no profile id", http.StatusCreated, `{"locale":"en-US"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t)
			fx.svc.createStatus = tt.status
			fx.svc.createBody = tt.body
			samples := fx.enrollment(t, 1)

			_, err := fx.verifier("westus").VerifySpeaker(context.Background(), samples, samples[0])
			e := wantKind(t, err, speakerverify.KindProfileCreationFailed)
			if tt.msg != "" && e.Message != tt.msg {
				t.Errorf("Message = %q, want %q", e.Message, tt.msg)
			}
			if n := fx.svc.count("delete"); n != 0 {
				t.Errorf("delete calls = %d, want 0", n)
			}
			if n := fx.svc.count("enroll"); n != 0 {
				t.Errorf("enroll calls = %d, want 0", n)
			}
		})
	}
}

func TestVerifySpeaker_SlowCreateNotReplayed(t *testing.T) {
	svc := newFakeService(t)
	svc.createDelay = 2 * time.Second
	srv := httptest.NewServer(svc)
	defer srv.Close()

	fx := &fixture{
		svc: svc,
		client: azspeech.NewClient("key",
			azspeech.WithEndpoint(srv.URL),
			azspeech.WithTimeout(100*time.Millisecond),
			azspeech.WithBackoff(time.Millisecond)),
		dir: t.TempDir(),
	}
	samples := fx.enrollment(t, 1)

	_, err := fx.verifier("westus").VerifySpeaker(context.Background(), samples, samples[0])
	e := wantKind(t, err, speakerverify.KindNetwork)
	if e.Op != "create profile" {
		t.Errorf("Op = %q", e.Op)
	}
	if n := svc.count("create"); n != 1 {
		t.Errorf("create calls = %d, want 1", n)
	}
	if n := svc.count("enroll"); n != 0 {
		t.Errorf("enroll calls = %d, want 0", n)
	}
}

func TestVerifySpeaker_MissingScore(t *testing.T) {
	fx := newFixture(t)
	fx.svc.verifyStatus = http.StatusOK
	fx.svc.verifyBody = `{"recognitionResult":"Accept"}`
	samples := fx.enrollment(t, 1)

	res, err := fx.verifier("westus").VerifySpeaker(context.Background(), samples, samples[0])
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
	wantKind(t, err, speakerverify.KindVerificationCallFailed)
	fx.assertCleanedUp(t)
}

func TestVerifySpeaker_NetworkError(t *testing.T) {
	fx := newFixture(t)
	fx.svc.verifyStatus = http.StatusServiceUnavailable
	samples := fx.enrollment(t, 1)

	_, err := fx.verifier("westus").VerifySpeaker(context.Background(), samples, samples[0])
	e := wantKind(t, err, speakerverify.KindNetwork)
	if !strings.HasPrefix(e.Op, "verify") {
		t.Errorf("Op = %q", e.Op)
	}
	if n := fx.svc.count("verify"); n != 2 {
		t.Errorf("verify calls = %d, want 2 (one retry)", n)
	}
	fx.assertCleanedUp(t)
}

func TestVerifySpeaker_CleanupFailureIsNotFatal(t *testing.T) {
	fx := newFixture(t)
	fx.svc.deleteStatus = http.StatusBadRequest
	samples := fx.enrollment(t, 4)

	res, err := fx.verifier("westus").VerifySpeaker(context.Background(), samples, samples[0])
	if err != nil {
		t.Fatalf("VerifySpeaker error: %v", err)
	}
	if res.Decision != azspeech.Accept {
		t.Errorf("Decision = %v", res.Decision)
	}
	if n := fx.svc.count("delete"); n != 1 {
		t.Errorf("delete calls = %d, want exactly 1", n)
	}
}

func TestVerifySpeaker_CleanupKeepsPrimaryError(t *testing.T) {
	fx := newFixture(t)
	fx.svc.deleteStatus = http.StatusBadRequest
	fx.svc.verifyStatus = http.StatusBadRequest
	fx.svc.verifyBody = `{"error":{"message":"Passphrase mismatch."}}`
	samples := fx.enrollment(t, 4)

	_, err := fx.verifier("westus").VerifySpeaker(context.Background(), samples, samples[0])
	wantKind(t, err, speakerverify.KindVerificationCallFailed)
	if errors.Is(err, speakerverify.ErrCleanupFailed) {
		t.Error("cleanup failure replaced the primary error")
	}
}

// stubAPI records the contexts it is called with.
type stubAPI struct {
	cancel    context.CancelFunc
	deleteErr error
	deleted   []string
}

func (s *stubAPI) CreateProfile(ctx context.Context, locale string) (*azspeech.Profile, error) {
	return &azspeech.Profile{ProfileID: "stub", Locale: locale}, nil
}

func (s *stubAPI) Enroll(ctx context.Context, id string, audio []byte) (*azspeech.Enrollment, error) {
	s.cancel()
	return nil, ctx.Err()
}

func (s *stubAPI) Verify(ctx context.Context, id string, audio []byte) (*azspeech.Verification, error) {
	return &azspeech.Verification{RecognitionResult: azspeech.Accept, Score: 1}, nil
}

func (s *stubAPI) DeleteProfile(ctx context.Context, id string) error {
	s.deleteErr = ctx.Err()
	s.deleted = append(s.deleted, id)
	return s.deleteErr
}

func TestVerifySpeaker_CancelledStillCleansUp(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	api := &stubAPI{cancel: cancel}

	samples := []speakerverify.Sample{{Path: "a", PCM: []byte{1}}, {Path: "b", PCM: []byte{1}}, {Path: "c", PCM: []byte{1}}}
	_, err := speakerverify.New(api, "westus").VerifySpeaker(ctx, samples, samples[0])

	wantKind(t, err, speakerverify.KindNetwork)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(api.deleted) != 1 || api.deleted[0] != "stub" {
		t.Fatalf("deleted = %v, want [stub]", api.deleted)
	}
	if api.deleteErr != nil {
		t.Errorf("cleanup ran with a done context: %v", api.deleteErr)
	}
}

func TestVerifySpeaker_Locale(t *testing.T) {
	var locale string
	svc := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		locale = req["locale"]
		reply(w, http.StatusUnauthorized, `{"error":{"message":"stop here"}}`)
	})
	srv := httptest.NewServer(svc)
	defer srv.Close()

	client := azspeech.NewClient("key", azspeech.WithEndpoint(srv.URL))
	samples := []speakerverify.Sample{{PCM: []byte{1}}, {PCM: []byte{1}}, {PCM: []byte{1}}}
	v := speakerverify.New(client.Verification, "westus", speakerverify.WithLocale("en-GB"))
	v.VerifySpeaker(context.Background(), samples, samples[0])

	if locale != "en-GB" {
		t.Errorf("locale = %q, want en-GB", locale)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
