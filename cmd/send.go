package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/lithammer/dedent"
	"github.com/ryan-gang/mail-sender/internal/cmdutil"
	"github.com/ryan-gang/mail-sender/internal/mail"
	"github.com/ryan-gang/mail-sender/internal/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sendCmd)
	addSendFlags(sendCmd)
}

var (
	helpSend = `Composes a message and sends it to one or more recipients in a single
SMTP session. Attachments that cannot be read are skipped and reported,
the rest of the message is still sent.`

	exampleSend = dedent.Dedent(`
		# Send a short plain text note
		mail-sender send --to a@example.com --subject "Hi" --body "See you at 5"

		# Several recipients, an HTML body read from a file and two attachments
		mail-sender send --to "a@example.com, b@example.com" --subject "Report" \
			--body-file report.html --html -a report.pdf -a data.csv

		# Write the body in Markdown, it is sent as HTML
		mail-sender send --to a@example.com -s "Notes" --body-file notes.md --markdown`,
	)
)

func addSendFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("to", "t", "", "Comma separated recipient addresses")
	cmd.Flags().StringP("subject", "s", "", "Subject line")
	cmd.Flags().StringP("body", "b", "", "Message body")
	cmd.Flags().String("body-file", "", "Read the message body from a file")
	cmd.Flags().Bool("html", false, "Send the body as HTML")
	cmd.Flags().Bool("markdown", false, "Render the body from Markdown and send it as HTML")
	cmd.Flags().StringArrayP("attach", "a", nil, "File to attach, repeat for more")
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation when the subject is empty")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")
	cmd.MarkFlagsMutuallyExclusive("html", "markdown")
}

var sendCmd = &cobra.Command{
	Use:     "send --to ADDR[,ADDR...] [flags]",
	Short:   "Send a message with optional attachments",
	Long:    helpSend,
	Example: exampleSend,
	Run: func(cmd *cobra.Command, args []string) {
		env := cmdutil.SetupOrExit(cmd)
		defer env.Close()

		msg, err := messageFromFlags(cmd)
		if err != nil {
			util.LogError(util.ValidationError, "reading message", err)
			env.Exit(1)
		}

		if len(msg.Recipients) == 0 {
			util.LogErrorf(util.ValidationError, "reading message", "no recipients given, use --to")
			env.Exit(1)
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if msg.Subject == "" && !yes {
			if !util.Confirm("The subject is empty, send anyway?") {
				util.Cyan.Println("Not sent")
				return
			}
		}

		util.CyanBold.Println("Sending mail")
		util.Cyan.Printf("To : %s\n", strings.Join(msg.Recipients, ", "))
		for i, path := range msg.Attachments {
			util.Cyan.Printf("%d. %s\n", i+1, path)
		}

		res, err := env.Mailer().Send(msg)
		for _, skipped := range res.Skipped {
			util.LogError(util.FileError, "attaching file", skipped)
		}
		if err != nil {
			util.LogError(util.MailError, "sending mail", err)
			util.Red.Println("Check the configuration and the network connection")
			env.Exit(1)
		}

		util.GreenBold.Printf("Mailed %d recipient(s)", len(res.Recipients))
		if len(res.Attached) > 0 {
			util.GreenBold.Printf(" with %d attachment(s)", len(res.Attached))
		}
		fmt.Println()
		for _, name := range res.Attached {
			util.Green.Printf("  + %s\n", name)
		}
	},
}

// messageFromFlags assembles the message described by the send flags.
func messageFromFlags(cmd *cobra.Command) (mail.Message, error) {
	flags := cmd.Flags()
	to, _ := flags.GetString("to")
	subject, _ := flags.GetString("subject")
	body, _ := flags.GetString("body")
	bodyFile, _ := flags.GetString("body-file")
	html, _ := flags.GetBool("html")
	markdown, _ := flags.GetBool("markdown")
	attachments, _ := flags.GetStringArray("attach")

	if bodyFile != "" {
		data, err := os.ReadFile(bodyFile)
		if err != nil {
			return mail.Message{}, fmt.Errorf("reading body file: %w", err)
		}
		body = string(data)
	}

	if markdown {
		rendered, err := mail.RenderMarkdown(body)
		if err != nil {
			return mail.Message{}, err
		}
		body, html = rendered, true
	}

	return mail.Message{
		Recipients:  mail.ParseRecipients(to),
		Subject:     subject,
		Body:        body,
		HTML:        html,
		Attachments: attachments,
	}, nil
}
