/*
Package authsdk is a small client for the token session service.

Sign in to obtain a Session. The access token is held by the Session and the
refresh token is held in the SDKClient's cookie jar, exactly as a browser
would hold it:

	client := authsdk.NewSDKClient("https://auth.example.com")

	session, err := client.SignIn(ctx, "a@x.com", "p1")
	if errors.Is(err, authsdk.ErrInvalidCredentials) {
		// wrong email or password
	}

	info, err := session.UserInfo(ctx)

Session calls that fail with ErrTokenExpired are refreshed once and retried.
Every failed response decodes into an *APIError, which can be compared with
the predefined errors using errors.Is.

The same APIError values are used by the server to write its responses, so
the wire format lives in one place.
*/
package authsdk
