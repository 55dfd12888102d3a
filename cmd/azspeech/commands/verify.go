package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gjwgit/azspeech2txt/pkg/azspeech"
	"github.com/gjwgit/azspeech2txt/pkg/speakerverify"
)

var (
	verifySamples []string
	verifyTarget  string
	verifyLong    bool
	verifyLocale  string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a speaker against three enrollment samples",
	Long: `Verify that a recording was spoken by the same person as three
enrollment recordings of a passphrase.

A temporary text-dependent profile is created, trained on the samples, used
once for verification and deleted. All recordings must be 16 kHz 16-bit mono
PCM WAV files; use 'azspeech audio convert' to prepare them. The service only
offers verification in the westus region.

Examples:
  azspeech verify -f s1.wav -f s2.wav -f s3.wav -v target.wav
  azspeech verify -f s1.wav,s2.wav,s3.wav -v target.wav --long
  azspeech verify -f s1.wav -f s2.wav -f s3.wav -v target.wav --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(verifySamples) != speakerverify.EnrollmentSamples {
			return fmt.Errorf("exactly %d enrollment samples are required (-f), got %d",
				speakerverify.EnrollmentSamples, len(verifySamples))
		}
		if verifyTarget == "" {
			return fmt.Errorf("target sample is required, use -v flag")
		}

		creds, ctx, err := getCredentials()
		if err != nil {
			return err
		}

		client := createClient(creds, ctx)
		verifier := speakerverify.New(client.Verification, creds.Region,
			speakerverify.WithLocale(verifyLocale))

		samples := make([]speakerverify.Sample, len(verifySamples))
		for i, path := range verifySamples {
			samples[i] = speakerverify.SampleFile(path)
		}

		printVerbose("Enrollment samples: %v", verifySamples)
		printVerbose("Target: %s", verifyTarget)

		reqCtx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		result, err := verifier.VerifySpeaker(reqCtx, samples, speakerverify.SampleFile(verifyTarget))
		if err != nil {
			return err
		}

		if isStructuredOutput() {
			return outputResult(result)
		}
		fmt.Println(speakerverify.Render(result, verifyLong))
		return nil
	},
}

var phrasesCmd = &cobra.Command{
	Use:   "phrases",
	Short: "List the passphrases accepted for speaker verification",
	Long: `List the passphrases a text-dependent verification profile can be
enrolled with. Enrollment and target recordings must speak one of them.

Examples:
  azspeech phrases
  azspeech phrases --locale en-US --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, ctx, err := getCredentials()
		if err != nil {
			return err
		}

		client := createClient(creds, ctx)

		reqCtx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		phrases, err := client.Verification.ListPhrases(reqCtx, verifyLocale)
		if err != nil {
			return fmt.Errorf("list phrases failed: %w", err)
		}

		if isStructuredOutput() {
			return outputResult(phrases)
		}
		for _, phrase := range phrases {
			fmt.Println(phrase)
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringSliceVarP(&verifySamples, "file", "f", nil, "enrollment sample (repeat three times)")
	verifyCmd.Flags().StringVarP(&verifyTarget, "verify", "v", "", "sample to verify")
	verifyCmd.Flags().BoolVar(&verifyLong, "long", false, "print the decision and the score on separate lines")
	verifyCmd.Flags().StringVar(&verifyLocale, "locale", azspeech.DefaultLocale, "profile locale")

	phrasesCmd.Flags().StringVar(&verifyLocale, "locale", azspeech.DefaultLocale, "passphrase locale")
}
