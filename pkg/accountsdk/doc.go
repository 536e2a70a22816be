/*
Package accountsdk provides a client SDK for the accounts service and the
request and response types shared with its HTTP handlers.

# SDKClient vs Session

  - SDKClient: registration, login and the token based calls, taking the
    token as an argument
  - Session: a logged-in user; it remembers the token for you

	client := accountsdk.NewSDKClient("https://accounts.example.com")

	_, err := client.Register(ctx, accountsdk.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Username:  "ada",
		Password:  "analytical-engine",
	})

	session, err := client.Authenticate(ctx, "ada", "analytical-engine")

	profile, err := session.GetProfile(ctx)

	_, err = session.UpdateProfile(ctx, accountsdk.ProfileRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Age:       accountsdk.AgeOf(36),
		City:      "London",
	})

	err = session.Logout(ctx)

# Tokens

Session tokens are opaque 64 character hex strings. They are sent in the
JSON body of each protected call, never in a header, and expire a fixed
time after login. There is no refresh: log in again.

# Errors

Every unsuccessful response is returned as *APIError:

	_, err := client.Register(ctx, req)
	var apiErr *accountsdk.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.Field("email"); msg != "" {
			// e.g. "This email is already registered"
		}
	}

Login failures never say whether the username or the password was wrong.
*/
package accountsdk
