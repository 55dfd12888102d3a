// Package speakerverify implements the text-dependent speaker verification
// workflow: create a voice profile, enroll three passphrase recordings,
// verify a fourth recording and delete the profile.
//
// The profile only lives for one VerifySpeaker call. Failures are reported
// as *Error values whose Kind tells the caller which step failed:
//
//	v := speakerverify.New(client.Verification, "westus")
//	res, err := v.VerifySpeaker(ctx, []speakerverify.Sample{
//	    speakerverify.SampleFile("a.wav"),
//	    speakerverify.SampleFile("b.wav"),
//	    speakerverify.SampleFile("c.wav"),
//	}, speakerverify.SampleFile("target.wav"))
//	if errors.Is(err, speakerverify.ErrUnsupportedRegion) {
//	    // no remote call was made
//	}
//	fmt.Println(speakerverify.Render(res, false))
package speakerverify
