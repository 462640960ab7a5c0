package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/pumpstream/internal/events"
	"github.com/rovshanmuradov/pumpstream/internal/utils/binary"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <payload>...",
		Short: `Decode "Program data:" lines or raw base64 event payloads`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDecode,
	}
}

type decodedEvent struct {
	Kind  string `json:"kind"`
	Event any    `json:"event"`
}

func runDecode(cmd *cobra.Command, args []string) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	for _, arg := range args {
		kind, ev, err := decodePayload(arg)
		if err != nil {
			return err
		}
		if err := enc.Encode(decodedEvent{Kind: kind.String(), Event: ev}); err != nil {
			return err
		}
	}
	return nil
}

func decodePayload(arg string) (events.Kind, any, error) {
	payload := strings.TrimSpace(arg)
	payload = strings.TrimPrefix(payload, events.ProgramDataPrefix)

	data, err := binary.DecodeBase64(nil, payload)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return events.DecodeEvent(data)
}
