package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

var chatSpeak bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat in the terminal",
	Long: `Starts a line based conversation on the default subject.

Name a subject (daa, java, python, dbms, ai) to switch knowledge bases.
Empty lines are ignored. Input can also be piped in, one question per line.

Commands:
  /voice <file>  Answer a recorded question
  /subject       Show the active subject
  /quit          Leave the chat`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatSpeak, "speak", false, "read every reply aloud")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	id := uuid.NewString()
	conv, err := startConversation(ctx, id)
	if err != nil {
		return err
	}
	defer sessionRegistry.Close(id)
	warnNoSpeech(cmd, chatSpeak)

	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	interactive := isTerminal(in)
	if interactive {
		fmt.Fprintf(out, "%s here. Ask me a question, or name a subject to switch. /quit to leave.\n",
			domain.AssistantName)
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprintf(out, "%s ", userLabel)
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var reply string
		switch {
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/subject":
			fmt.Fprintf(out, "Active subject: %s\n", conv.Subject())
			continue
		case strings.HasPrefix(line, "/voice"):
			path := strings.TrimSpace(strings.TrimPrefix(line, "/voice"))
			if path == "" {
				fmt.Fprintln(out, "Usage: /voice <file>")
				continue
			}
			transcript, answer, err := voiceTurn(ctx, conv, path)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			if transcript != "" {
				fmt.Fprintf(out, "%s %s\n", userVoiceLabel, transcript)
			}
			reply = answer
		default:
			if !interactive {
				fmt.Fprintf(out, "%s %s\n", userLabel, line)
			}
			reply = conv.Ask(ctx, line)
		}

		printReply(out, reply)
		if chatSpeak {
			speakReply(ctx, reply)
		}
	}
	return scanner.Err()
}
