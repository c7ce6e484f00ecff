/*
Copyright The Launchpad Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"launchpad.sh/launchpad/pkg/action"
	"launchpad.sh/launchpad/pkg/fetcher"
)

const fetchDesc = `
This command downloads artifacts into the libraries directory.

Without arguments every dependency of the launch file is fetched from the
repository it names. Arguments of the form GROUP:ARTIFACT:VERSION are fetched
from the repository given with --repo, Maven Central by default:

	$ launchpad fetch com.google.guava:guava:32.1.2-jre

Artifacts that already exist locally are not downloaded again unless --force
is set. A download is accepted once its MD5 checksum matches the ETag sent by
the repository. Use --verify to reject artifacts the repository provides no
checksum for, or to skip verification entirely.

The first artifact that cannot be fetched stops the command.
`

func newFetchCmd(cfg *action.Configuration, out io.Writer) *cobra.Command {
	client := action.NewFetch(cfg)
	var verify, outfmt string
	var passwordFromStdin bool

	cmd := &cobra.Command{
		Use:   "fetch [GROUP:ARTIFACT:VERSION...]",
		Short: "download dependencies into the libraries directory",
		Long:  fetchDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyVerify(&client.Verify, verify); err != nil {
				return err
			}
			format, err := action.ParseOutputFormat(outfmt)
			if err != nil {
				return err
			}
			client.Parallelism = cfg.Settings.Parallelism

			if client.Username, client.Password, err = credentials(cmd, client.Username, client.Password, passwordFromStdin); err != nil {
				return err
			}

			progress := out
			if format != action.Table {
				progress = io.Discard
			}
			results, err := client.Run(cmd.Context(), progress, args)
			if err != nil {
				return err
			}
			if format == action.Table {
				return nil
			}
			b, err := format.Marshal(results)
			if err != nil {
				return err
			}
			_, err = out.Write(b)
			return err
		},
	}

	f := cmd.Flags()
	addDownloadFlags(f, client, &verify)
	f.StringVar(&client.Repository, "repo", "", "repository URL for artifacts given as arguments (default Maven Central)")
	f.StringVar(&client.Username, "username", "", "repository username for artifacts given as arguments")
	f.StringVar(&client.Password, "password", "", "repository password for artifacts given as arguments")
	f.BoolVar(&passwordFromStdin, "password-stdin", false, "read the repository password from stdin")
	f.BoolVar(&client.PassCredentialsAll, "pass-credentials", false, "pass credentials to all domains")
	f.StringVarP(&outfmt, "output", "o", action.Table.String(), "prints the results in the specified format. Allowed values: table, json, yaml")

	return cmd
}

// addDownloadFlags registers the flags shared by every command that fetches.
func addDownloadFlags(f *pflag.FlagSet, client *action.Fetch, verify *string) {
	f.BoolVar(&client.Force, "force", false, "download artifacts even if they exist locally")
	f.StringVar(verify, "verify", fetcher.VerifyIfPossible.String(), "checksum verification: always, if-possible or never")
	f.StringVar(&client.CertFile, "cert-file", "", "identify HTTPS client using this SSL certificate file")
	f.StringVar(&client.KeyFile, "key-file", "", "identify HTTPS client using this SSL key file")
	f.StringVar(&client.CaFile, "ca-file", "", "verify certificates of HTTPS-enabled servers using this CA bundle")
	f.BoolVar(&client.InsecureSkipTLSVerify, "insecure-skip-tls-verify", false, "skip tls certificate checks for the repository")
}

func applyVerify(dst *fetcher.VerificationStrategy, s string) error {
	v, err := fetcher.ParseVerificationStrategy(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// credentials completes the command line credentials, reading the password
// from stdin or prompting for it on a terminal.
func credentials(cmd *cobra.Command, username, password string, passwordFromStdin bool) (string, string, error) {
	switch {
	case passwordFromStdin:
		if username == "" {
			return "", "", errors.New("--password-stdin requires --username")
		}
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", err
		}
		password = strings.TrimSuffix(string(b), "\n")
		password = strings.TrimSuffix(password, "\r")
	case password != "":
		warning("Using --password via the CLI is insecure. Use --password-stdin.")
	case username != "":
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return username, password, nil
		}
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", "", err
		}
		password = string(b)
	}
	return username, password, nil
}
