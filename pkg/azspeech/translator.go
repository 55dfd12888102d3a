package azspeech

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// TranslatorService provides text translation through the Translator v3.0
// API, authenticated with the same subscription key.
type TranslatorService struct {
	client *Client
}

// newTranslatorService creates a new translator service.
func newTranslatorService(client *Client) *TranslatorService {
	return &TranslatorService{client: client}
}

// Translate translates text into every language in to. An empty from lets
// the service detect the source language.
func (s *TranslatorService) Translate(ctx context.Context, text, from string, to ...string) (*TranslateResult, error) {
	if len(to) == 0 {
		return nil, errors.New("azspeech: no target language")
	}

	q := url.Values{}
	q.Set("api-version", "3.0")
	if from != "" {
		q.Set("from", from)
	}
	for _, lang := range to {
		q.Add("to", lang)
	}

	body, err := jsonPayload([]map[string]string{{"Text": text}})
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("X-ClientTraceId", uuid.NewString())
	if region := s.client.config.region; region != "" {
		header.Set("Ocp-Apim-Subscription-Region", region)
	}

	var resp []TranslateResult
	u := s.client.config.translatorEndpoint + "/translate?" + q.Encode()
	if err := s.client.http.request(ctx, http.MethodPost, u, body, header, &resp); err != nil {
		return nil, err
	}
	if len(resp) != 1 {
		return nil, fmt.Errorf("%w: %d translate results for one text", ErrInvalidResponse, len(resp))
	}
	return &resp[0], nil
}
