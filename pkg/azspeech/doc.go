// Package azspeech is a client for the Azure Speech REST APIs that the
// native Speech SDK does not cover: text-dependent speaker verification and
// text translation.
//
// Every request carries the subscription key in the Ocp-Apim-Subscription-Key
// header. Each attempt runs under its own timeout; transport failures, 429
// and 5xx responses are retried (once by default).
//
// Example usage:
//
//	client := azspeech.NewClient(key, azspeech.WithRegion("westus"))
//
//	profile, err := client.Verification.CreateProfile(ctx, "en-US")
//	if err != nil {
//	    return err
//	}
//	defer client.Verification.DeleteProfile(ctx, profile.ProfileID)
//
//	res, err := client.Translator.Translate(ctx, "hello", "en", "fr", "de")
package azspeech
