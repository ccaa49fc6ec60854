package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vibast-solutions/ms-go-glucose/app/service"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const accessCodeEnv = "APP_ACCESS_CODE"

var (
	errAccessNotConfigured = errors.New(accessCodeEnv + " is not set")
	errInvalidAccessCode   = errors.New("invalid access code")
)

var accessCmd = &cobra.Command{
	Use:   "access",
	Short: "Inspect the write access code",
}

var accessTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the access token API clients send in X-Access-Token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printAccessToken(cmd.OutOrStdout(), newAccessVerifierForCommands())
	},
}

var accessCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Read an access code from stdin and report whether it is valid",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return checkAccessCode(cmd.InOrStdin(), cmd.OutOrStdout(), newAccessVerifierForCommands())
	},
}

func init() {
	accessCmd.AddCommand(accessTokenCmd)
	accessCmd.AddCommand(accessCheckCmd)
	rootCmd.AddCommand(accessCmd)
}

func newAccessVerifierForCommands() *service.AccessVerifier {
	_ = godotenv.Load()
	return service.NewAccessVerifier(service.EnvSecret(accessCodeEnv))
}

func printAccessToken(out io.Writer, verifier *service.AccessVerifier) error {
	token, ok := verifier.ExpectedToken()
	if !ok {
		return errAccessNotConfigured
	}

	fmt.Fprintf(out, "version: %s\n", service.AccessTokenVersion)
	fmt.Fprintf(out, "access_token: %s\n", token)
	return nil
}

func checkAccessCode(in io.Reader, out io.Writer, verifier *service.AccessVerifier) error {
	if !verifier.HasSecretConfigured() {
		return errAccessNotConfigured
	}

	fmt.Fprint(out, "Access code: ")
	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	fmt.Fprintln(out)

	if !verifier.IsCodeValid(strings.TrimRight(input, "\r\n")) {
		return errInvalidAccessCode
	}

	fmt.Fprintln(out, "access code is valid")
	return nil
}
