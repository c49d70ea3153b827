package arg

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/LavaJover/little-brother/internal/domain"
	"github.com/LavaJover/little-brother/internal/infrastructure/kafka"
)

func (c *cli) pushCmd() *cobra.Command {
	var (
		master   masterFlags
		viaKafka bool
	)

	cmd := &cobra.Command{
		Use:   "push <hostname> <file>",
		Short: "Send process events of a host to the master",
		Long: `Reads a JSON array of process events ("-" reads stdin) and delivers them
the way a client does: posted to the master's event API, or with --kafka
published on the client events topic. Over HTTP the events the master
queued for the host are printed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hostname := args[0]

			events, err := readEvents(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}
			for _, event := range events {
				if event.Hostname == "" {
					event.Hostname = hostname
				}
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			out := cmd.OutOrStdout()
			connector := c.connectorFor(cfg, master)

			if viaKafka {
				publisher := kafka.NewDefaultKafkaPublisher(cfg.KafkaService.Brokers, stderrLogger())
				defer publisher.Close()

				batch := connector.EncodeEvent(hostname, events, nil)
				if err := publisher.PublishEventBatch(ctx, cfg.KafkaService.ClientEventsTopic, batch); err != nil {
					return err
				}
				fmt.Fprintf(out, "Published %d events of %s to %s\n", len(events), hostname, cfg.KafkaService.ClientEventsTopic)
				return nil
			}

			queued, err := connector.SendEvents(ctx, hostname, events, nil)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return json.NewEncoder(out).Encode(queued)
			}

			fmt.Fprintf(out, "Sent %d events of %s, %d queued for the host\n", len(events), hostname, len(queued))
			for _, event := range queued {
				fmt.Fprintf(out, "  - %s %s\n", event.EventType, event.Username)
			}
			return nil
		},
	}

	master.register(cmd)
	cmd.Flags().BoolVar(&viaKafka, "kafka", false, "publish on the client events topic instead of posting to the master")
	return cmd
}

func readEvents(path string, stdin io.Reader) ([]*domain.AdminEvent, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var events []*domain.AdminEvent
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode events from %s: %w", path, err)
	}
	return events, nil
}
