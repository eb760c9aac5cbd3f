package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/casewatch/cmd"
	"github.com/cristianoliveira/casewatch/internal/colors"
	"github.com/cristianoliveira/casewatch/internal/logging"
	"github.com/cristianoliveira/casewatch/internal/session"
	"github.com/cristianoliveira/casewatch/internal/storage"
)

// NewVerifyPhoneCmd creates the verify-phone command with explicit dependencies.
func NewVerifyPhoneCmd(verifier session.Verifier, open storeOpener) *cobra.Command {
	if verifier == nil {
		panic("NewVerifyPhoneCmd: verifier dependency cannot be nil")
	}
	if open == nil {
		panic("NewVerifyPhoneCmd: open dependency cannot be nil")
	}

	var (
		code       string
		printToken bool
	)

	verifyCmd := &cobra.Command{
		Use:   "verify-phone <number>",
		Short: "Sign in with a one-time code sent by SMS",
		Long: `Send a one-time code to a phone number and confirm it. The session
token is saved in the local store and used by later commands when
api_token is not configured.

USAGE:
    casewatch verify-phone <number> [OPTIONS]

OPTIONS:
    --code <code>      Confirm with this code instead of prompting
    --print-token      Print the session token instead of saving it
    -h, --help         Show this help`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			s := session.New(verifier, logging.GetGlobal())
			defer s.Close()

			if err := s.SendCode(c.Context(), args[0]); err != nil {
				return fmt.Errorf("verify-phone: %w", err)
			}
			colors.Info(fmt.Sprintf("Verification code sent to %s", s.Phone()))

			entered := code
			if entered == "" {
				var err error
				if entered, err = promptCode(c.InOrStdin(), c.OutOrStdout()); err != nil {
					return fmt.Errorf("verify-phone: %w", err)
				}
			}

			token, err := s.Confirm(c.Context(), entered)
			if err != nil {
				return fmt.Errorf("verify-phone: %w", err)
			}

			if printToken {
				_, err = fmt.Fprintln(c.OutOrStdout(), token)
				return err
			}
			kv, err := open()
			if err != nil {
				return fmt.Errorf("verify-phone: %w", err)
			}
			defer func() { _ = kv.Close() }()
			if err := kv.Set(authTokenKey, token); err != nil {
				return fmt.Errorf("verify-phone: save token: %w", err)
			}
			colors.Success("Phone verified, session saved")
			return nil
		},
	}

	verifyCmd.Flags().StringVar(&code, "code", "", "Verification code")
	verifyCmd.Flags().BoolVar(&printToken, "print-token", false, "Print the session token instead of saving it")

	return verifyCmd
}

// promptCode reads one line from in.
func promptCode(in io.Reader, out io.Writer) (string, error) {
	_, _ = fmt.Fprint(out, "Enter code: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("no code entered")
	}
	return line, nil
}

// verifyPhoneCmd represents the verify-phone command
var verifyPhoneCmd = NewVerifyPhoneCmd(backend, func() (storage.KV, error) { return openStore() })

func init() {
	cmd.RootCmd.AddCommand(verifyPhoneCmd)
}
