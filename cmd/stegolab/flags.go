package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"StegoLab/pkg/filehandler"
	"StegoLab/pkg/stego"
)

// modeFlags are the embedding parameters shared by most subcommands
type modeFlags struct {
	bits     int
	method   string
	password string
}

func (m *modeFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&m.bits, "bits", "b", 1, "Bits per color channel (1-3)")
	cmd.Flags().StringVarP(&m.method, "method", "m", string(stego.Sequential), "Carrier order: sequential or interleaved")
	cmd.Flags().StringVarP(&m.password, "password", "p", "", "Optional XOR password")
}

func (m *modeFlags) parse() (stego.Method, error) {
	method, err := stego.ParseMethod(m.method)
	if err != nil {
		return "", err
	}
	if err := stego.ValidateParams(m.bits, method); err != nil {
		return "", err
	}
	return method, nil
}

// messageFlags take the secret either inline or from a file
type messageFlags struct {
	text string
	file string
}

func (f *messageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.text, "message", "t", "", "Message to hide")
	cmd.Flags().StringVar(&f.file, "message-file", "", "Read the message from a file")
}

func (f *messageFlags) resolve() (string, error) {
	switch {
	case f.text != "" && f.file != "":
		return "", errors.New("use either --message or --message-file, not both")
	case f.file != "":
		data, err := filehandler.ReadFileBytes(f.file)
		if err != nil {
			return "", fmt.Errorf("failed to read message file: %w", err)
		}
		return string(data), nil
	case f.text != "":
		return f.text, nil
	}
	return "", errors.New("a message is required (--message or --message-file)")
}

func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}
