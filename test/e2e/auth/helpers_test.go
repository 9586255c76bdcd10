//go:build e2e

package auth_test

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/invitegate/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and shared flows for the auth service end-to-end tests.
 */

const (
	testImageName = "invitegate-auth-test:latest"

	adminEmail    = "admin@example.com"
	adminName     = "Administrator"
	adminPassword = "Admin123!"
	userPassword  = "User1234!"
)

// TestMain builds the Docker image once before all tests and removes it
// afterwards.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Auth Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Auth Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/auth/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

func baseEnv() map[string]string {
	return map[string]string{
		"AUTH_SECRET_KEY":     "e2e-secret-key-0123456789abcdefgh",
		"AUTH_ALGORITHM":      "HS256",
		"AUTH_DATABASE_FILE":  "/data/auth.db",
		"AUTH_SIGNUP_URL":     "http://localhost:8080/signup",
		"AUTH_ADMIN_PASSWORD": adminPassword,
		"ENV":                 "test",
		"LOG_LEVEL":           "info",
		"LOG_FORMAT":          "json",
	}
}

// authContainer is a running auth service.
type authContainer struct {
	testcontainers.Container
	BaseURL string
}

// setupAuthContainer starts the service with relaxed rate limits. Tests make
// many rapid requests that would trip the production limits.
func setupAuthContainer(t *testing.T) *authContainer {
	t.Helper()
	env := baseEnv()
	for _, p := range []string{"STRICT", "MODERATE", "LENIENT"} {
		env["RATELIMIT_"+p+"_REQUESTS"] = "1000"
		env["RATELIMIT_"+p+"_BURST"] = "1000"
	}
	return startContainer(t, env)
}

// setupAuthContainerWithDefaultRateLimits starts the service with production
// limits, for the rate limiting tests only.
func setupAuthContainerWithDefaultRateLimits(t *testing.T) *authContainer {
	t.Helper()
	return startContainer(t, baseEnv())
}

func startContainer(t *testing.T, env map[string]string) *authContainer {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/readyz").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return &authContainer{
		Container: container,
		BaseURL:   fmt.Sprintf("http://%s:%s", host, mappedPort.Port()),
	}
}

// adminCLI runs auth-admin inside the container and returns its exit code
// and combined output.
func (c *authContainer) adminCLI(t *testing.T, args ...string) (int, string) {
	t.Helper()

	code, reader, err := c.Exec(t.Context(), append([]string{"/auth-admin"}, args...), tcexec.Multiplexed())
	require.NoError(t, err)

	out, err := io.ReadAll(reader)
	require.NoError(t, err)
	return code, string(out)
}

// bootstrapAdmin creates the administrator with the CLI and logs in.
func bootstrapAdmin(t *testing.T, c *authContainer, client *authsdk.SDKClient) *authsdk.Session {
	t.Helper()

	code, out := c.adminCLI(t, "create-admin", "-email", adminEmail, "-name", adminName)
	require.Equal(t, 0, code, "create-admin failed: %s", out)

	session, err := client.AuthenticateWithPassword(t.Context(), adminEmail, adminPassword)
	require.NoError(t, err, "admin login should succeed")
	return session
}

// inviteToken issues an invite for email and returns the token from the link.
func inviteToken(t *testing.T, admin *authsdk.Session, email string) string {
	t.Helper()

	resp, err := admin.IssueInvite(t.Context(), authsdk.InviteRequest{Email: email})
	require.NoError(t, err)

	u, err := url.Parse(resp.InviteLink)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token, "invite link should carry a token")
	return token
}

// registerUser runs the invite and signup flow and logs the new user in.
func registerUser(t *testing.T, client *authsdk.SDKClient, admin *authsdk.Session, name, email string) *authsdk.Session {
	t.Helper()

	token := inviteToken(t, admin, email)
	_, err := client.Signup(t.Context(), authsdk.SignupRequest{
		Name:     name,
		Email:    email,
		Password: userPassword,
		Token:    token,
	})
	require.NoError(t, err)

	session, err := client.AuthenticateWithPassword(t.Context(), email, userPassword)
	require.NoError(t, err)
	return session
}

func assertHealthy(t *testing.T, health *authsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
