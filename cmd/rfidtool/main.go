// go-rfid
// Copyright (c) 2026 go-rfid contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later

// rfidtool exercises an ACR122U-family reader and a MIFARE Ultralight C
// tag: print the UID and firmware, read and write user memory, run the
// authentication handshake, and change the tag key.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	rfid "github.com/ahfs-hamburg/go-rfid"
	"github.com/ahfs-hamburg/go-rfid/internal/config"
	"github.com/ahfs-hamburg/go-rfid/polling"
	"github.com/ahfs-hamburg/go-rfid/transport/pcsc"
)

type flags struct {
	configPath *string
	readerIdx  *int
	listOnly   *bool
	watch      *bool
	firmware   *bool
	uid        *bool
	readBlock  *int
	readLen    *int
	writeBlock *int
	writeHex   *string
	writeText  *string
	ledDemo    *bool
	keyHex     *string
	changeKey  *bool
	debug      *bool
}

func parseFlags() *flags {
	f := &flags{
		configPath: flag.String("config", "", "Path to a YAML configuration file"),
		readerIdx:  flag.Int("reader", 0, "PC/SC reader index"),
		listOnly:   flag.Bool("list", false, "List attached readers and exit"),
		watch:      flag.Bool("watch", false, "Watch reader and card events until interrupted"),
		firmware:   flag.Bool("firmware", false, "Print the reader firmware version"),
		uid:        flag.Bool("uid", false, "Read and print the tag UID"),
		readBlock:  flag.Int("read", -1, "Read from the given block number"),
		readLen:    flag.Int("read-len", 16, "Number of bytes to read with -read"),
		writeBlock: flag.Int("write", -1, "Write to the given block number"),
		writeHex:   flag.String("write-hex", "", "Hex data for -write"),
		writeText:  flag.String("write-text", "", "Write an NDEF text record to the tag"),
		ledDemo:    flag.Bool("led", false, "Blink the LEDs and beep once"),
		keyHex:     flag.String("key", "", "16-byte authentication key as hex (prompts if 'ask')"),
		changeKey:  flag.Bool("change-key", false, "Write a new authentication key (prompts for it)"),
		debug:      flag.Bool("debug", false, "Enable frame-level debug output"),
	}
	flag.Parse()
	return f
}

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintln(os.Stderr, "rfidtool:", err)
		os.Exit(1)
	}
}

func run(f *flags) error {
	if *f.debug {
		rfid.SetDebugEnabled(true)
	}

	if *f.listOnly {
		return listReaders()
	}
	if *f.watch {
		return watchEvents()
	}

	readerIdx := *f.readerIdx
	key := []byte(nil)
	buzzer := false
	if *f.configPath != "" {
		cfg, err := config.Load(*f.configPath)
		if err != nil {
			return err
		}
		readerIdx = cfg.Reader.Index
		key = cfg.Key()
		buzzer = cfg.Reader.Buzzer
	}
	if *f.keyHex != "" {
		var err error
		if key, err = resolveKey(*f.keyHex); err != nil {
			return err
		}
	}

	transport, err := pcsc.Connect(readerIdx)
	if err != nil {
		return err
	}
	defer func() { _ = transport.Close() }()

	reader, err := rfid.New(transport, rfid.WithBuzzerOnDetection(buzzer))
	if err != nil {
		return err
	}
	tag := rfid.NewUltralightC(reader)

	if key != nil {
		if err := tag.Authenticate(key); err != nil {
			return err
		}
		fmt.Println("authenticated")
	}

	return dispatch(f, reader, tag)
}

func dispatch(f *flags, reader *rfid.Reader, tag *rfid.UltralightC) error {
	switch {
	case *f.firmware:
		version, err := reader.FirmwareVersion()
		if err != nil {
			return err
		}
		fmt.Println(version)

	case *f.uid:
		uid, err := tag.UID()
		if err != nil {
			return err
		}
		fmt.Println(strings.ToUpper(hex.EncodeToString(uid)))

	case *f.readBlock >= 0:
		data, err := tag.ReadLongData(byte(*f.readBlock), *f.readLen)
		if err != nil {
			return err
		}
		fmt.Printf("% X\n", data)

	case *f.writeBlock >= 0:
		data, err := hex.DecodeString(*f.writeHex)
		if err != nil {
			return fmt.Errorf("decode -write-hex: %w", err)
		}
		if err := tag.WriteLongData(byte(*f.writeBlock), data); err != nil {
			return err
		}
		fmt.Printf("wrote %d bytes\n", len(data))

	case *f.writeText != "":
		if err := tag.WriteText(*f.writeText); err != nil {
			return err
		}
		fmt.Println("NDEF text written")

	case *f.ledDemo:
		state, err := reader.ControlLEDBuzzer(rfid.LEDBuzzerParams{
			LED: rfid.LEDControl{
				GreenBlinking: true,
				RedBlinking:   true,
			},
			T1Duration:  200,
			T2Duration:  200,
			Repetitions: 3,
			BuzzerT1:    true,
		})
		if err != nil {
			return err
		}
		fmt.Printf("led state: red=%v green=%v\n", state.Red, state.Green)

	case *f.changeKey:
		newKey, err := promptKey("new key (32 hex chars): ")
		if err != nil {
			return err
		}
		if err := tag.ChangeAuthKey(newKey); err != nil {
			return err
		}
		fmt.Println("key changed")

	default:
		flag.Usage()
	}
	return nil
}

func listReaders() error {
	readers, err := pcsc.ListReaders()
	if err != nil {
		return err
	}
	if len(readers) == 0 {
		fmt.Println("no readers attached")
		return nil
	}
	for i, name := range readers {
		fmt.Printf("%d: %s\n", i, name)
	}
	return nil
}

// watchEvents polls the PC/SC layer and prints connection events until
// the process is interrupted.
func watchEvents() error {
	source, err := pcsc.NewSource()
	if err != nil {
		return err
	}
	defer func() { _ = source.Close() }()

	monitor := polling.NewMonitor(source)
	for _, kind := range []polling.EventKind{
		polling.EventReaderConnected,
		polling.EventReaderDisconnected,
		polling.EventCardInserted,
		polling.EventCardRemoved,
	} {
		monitor.Subscribe(kind, func(e polling.Event) {
			if e.Reader != "" {
				fmt.Printf("%s (%s)\n", e.State, e.Reader)
				return
			}
			fmt.Println(e.State)
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := monitor.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// resolveKey decodes a key given on the command line, or prompts for it
// without echo when the value is "ask".
func resolveKey(value string) ([]byte, error) {
	if value == "ask" {
		return promptKey("authentication key (32 hex chars): ")
	}
	key, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode -key: %w", err)
	}
	if len(key) != 16 {
		return nil, fmt.Errorf("-key must decode to 16 bytes, got %d", len(key))
	}
	return key, nil
}

func promptKey(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	key, err := hex.DecodeString(strings.TrimSpace(string(line)))
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	if len(key) != 16 {
		return nil, fmt.Errorf("key must decode to 16 bytes, got %d", len(key))
	}
	return key, nil
}
