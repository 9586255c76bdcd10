/*
Package authsdk provides a client SDK for the invitegate service, together
with the request/response types and validation rules the server itself uses.

# SDKClient vs Session

  - SDKClient: public operations (signup, login, health) and session creation
  - Session: bearer-authenticated operations (/me, /admin/invite)

	client := authsdk.NewSDKClient("https://auth.example.com")

	// Redeem an invite
	_, err := client.Signup(ctx, authsdk.SignupRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "Valid1Pass!",
		Token:    tokenFromInviteLink,
	})

	// Log in
	session, err := client.AuthenticateWithPassword(ctx, "bob@example.com", "Valid1Pass!")

	me, err := session.Me(ctx)

An administrator session can issue invites:

	invite, err := adminSession.IssueInvite(ctx, authsdk.InviteRequest{Email: "new@example.com"})
	fmt.Println(invite.InviteLink)

# Token Lifetime

Access tokens are not refreshable. Once a Session's token expires its methods
return ErrSessionExpired without contacting the server; log in again.

# Validation

SignupRequest and InviteRequest have Validate methods built on
ozzo-validation. The password policy (PasswordRules) requires 8-72 bytes, a
lowercase letter, an uppercase letter, a digit and one of "@$!%*?&". The
client validates before sending unless ValidateRequests is false.

# Error Handling

Server errors are returned as *APIError, comparable with errors.Is against
the predefined values:

	_, err := client.Signup(ctx, req)
	switch {
	case errors.Is(err, authsdk.ErrInvalidInvite):
		// token unknown, used, reissued or bound to another email
	case errors.Is(err, authsdk.ErrUserExists):
		// account already registered
	}

Field validation failures are returned as *ValidationError with per-field
Details.
*/
package authsdk
