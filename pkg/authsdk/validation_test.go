package authsdk_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/invitegate/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"valid", "Valid1Pass!", ""},
		{"every special char accepted", "Abcdefg1&", ""},
		{"exactly 72 bytes", "Aa1!" + strings.Repeat("x", 68), ""},
		{"empty", "", "cannot be blank"},
		{"too short", "short1!", "between 8 and 72 bytes"},
		{"too long", "Aa1!" + strings.Repeat("x", 69), "between 8 and 72 bytes"},
		{"no uppercase", "alllowercase1!", "uppercase"},
		{"no lowercase", "ALLUPPERCASE1!", "lowercase"},
		{"no digit", "NoDigits!", "digit"},
		{"no special", "NoSpecial1", "@$!%*?&"},
		{"special outside set", "NoSpecial1#", "@$!%*?&"},
		{"non-ascii lowercase", "ÄÖÜSTRASSEß1!", ""},
		{"non-ascii uppercase", "straßeÄ1!", ""},
		{"non-ascii digit", "Passwort٣!", ""},
		{"non-ascii letters without uppercase", "çàéèêëï1!", "uppercase"},
		{"non-ascii letters without digit", "Ñandúes!", "digit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authsdk.ValidatePassword(tt.password)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatePassword_CountsBytes(t *testing.T) {
	// 4 runes of 3 bytes each plus 4 ASCII: 8 runes but 16 bytes.
	require.NoError(t, authsdk.ValidatePassword("€€€€Aa1!"))

	// 70 bytes of 3-byte runes plus "Aa1!" exceeds 72 bytes while the rune
	// count stays well under it.
	long := strings.Repeat("€", 23) + "Aa1!"
	require.Greater(t, len(long), authsdk.MaxPasswordBytes)
	require.Error(t, authsdk.ValidatePassword(long))
}

func TestSignupRequest_Validate(t *testing.T) {
	valid := authsdk.SignupRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "Valid1Pass!",
		Token:    "tok",
	}
	require.NoError(t, valid.Validate())

	bad := authsdk.SignupRequest{Email: "not-an-email", Password: "weak"}
	verr := authsdk.NewValidationError(bad.Validate())
	require.NotNil(t, verr)
	require.Contains(t, verr.Details, "name")
	require.Contains(t, verr.Details, "email")
	require.Contains(t, verr.Details, "password")
	require.Contains(t, verr.Details, "token")
}

func TestInviteRequest_Validate(t *testing.T) {
	require.NoError(t, authsdk.InviteRequest{Email: "bob@example.com"}.Validate())

	verr := authsdk.NewValidationError(authsdk.InviteRequest{}.Validate())
	require.NotNil(t, verr)
	require.Equal(t, map[string]string{"email": "cannot be blank"}, verr.Details)

	require.Error(t, authsdk.InviteRequest{Email: "bob"}.Validate())
}

func TestNewValidationError_Nil(t *testing.T) {
	require.Nil(t, authsdk.NewValidationError(nil))
}
