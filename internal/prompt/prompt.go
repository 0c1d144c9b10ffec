// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package prompt reads private keys and confirmations from the terminal.
package prompt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/unwriter/datacash/internal/zero"
	"golang.org/x/term"
)

// ErrNoKey is returned when the input ends before a key was entered.
var ErrNoKey = errors.New("no private key entered")

// lineReader returns the next line of input, without the line terminator.
type lineReader func() ([]byte, error)

// ProvidePrivateKey prompts for a WIF encoded private key of the network
// net.  On a terminal the key is not echoed and the prompt is repeated until
// a valid key is entered.  Otherwise the first line of reader is used.
func ProvidePrivateKey(reader *bufio.Reader,
	net *chaincfg.Params) (*btcutil.WIF, error) {

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return privateKey(readLine(reader), io.Discard, net, false)
	}

	readHidden := func() ([]byte, error) {
		line, err := term.ReadPassword(fd)
		fmt.Print("\n")
		return line, err
	}
	return privateKey(readHidden, os.Stdout, net, true)
}

// privateKey decodes the key read by next.  The entered text is cleared once
// decoded.
func privateKey(next lineReader, out io.Writer, net *chaincfg.Params,
	retry bool) (*btcutil.WIF, error) {

	for {
		fmt.Fprint(out, "Enter the private key (WIF): ")
		line, err := next()
		if err != nil && (!errors.Is(err, io.EOF) || len(line) == 0) {
			if errors.Is(err, io.EOF) {
				return nil, ErrNoKey
			}
			return nil, err
		}

		text := bytes.TrimSpace(line)
		if len(text) == 0 {
			zero.Bytes(line)
			if !retry {
				return nil, ErrNoKey
			}
			continue
		}

		wif, err := btcutil.DecodeWIF(string(text))
		zero.Bytes(line)

		switch {
		case err != nil:
			err = fmt.Errorf("invalid private key: %w", err)
		case !wif.IsForNet(net):
			zero.WIF(wif)
			err = fmt.Errorf("the private key is not for %s", net.Name)
		default:
			return wif, nil
		}

		if !retry {
			return nil, err
		}
		fmt.Fprintln(out, err)
	}
}

// readLine adapts reader to a lineReader.
func readLine(reader *bufio.Reader) lineReader {
	return func() ([]byte, error) {
		line, err := reader.ReadBytes('\n')
		return bytes.TrimRight(line, "\r\n"), err
	}
}

// promptList prompts the user with the given prefix, list of valid responses,
// and default list entry to use.  The prompt is repeated until a valid
// response is entered.
func promptList(reader *bufio.Reader, out io.Writer, prefix string,
	validResponses []string, defaultEntry string) (string, error) {

	validStrings := strings.Join(validResponses, "/")
	var prompt string
	if defaultEntry != "" {
		prompt = fmt.Sprintf("%s (%s) [%s]: ", prefix, validStrings,
			defaultEntry)
	} else {
		prompt = fmt.Sprintf("%s (%s): ", prefix, validStrings)
	}

	for {
		fmt.Fprint(out, prompt)
		reply, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || reply == "") {
			return "", err
		}
		reply = strings.TrimSpace(strings.ToLower(reply))
		if reply == "" {
			reply = defaultEntry
		}

		for _, validResponse := range validResponses {
			if reply == validResponse {
				return reply, nil
			}
		}
	}
}

// Confirm asks a yes/no question, returning the answer.  An empty reply picks
// defaultEntry.
func Confirm(reader *bufio.Reader, out io.Writer, prefix string,
	defaultEntry string) (bool, error) {

	valid := []string{"n", "no", "y", "yes"}
	response, err := promptList(reader, out, prefix, valid, defaultEntry)
	if err != nil {
		return false, err
	}
	return response == "yes" || response == "y", nil
}
