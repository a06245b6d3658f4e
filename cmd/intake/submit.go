package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sarabibeach/booking-intake/internal/app"
	"github.com/sarabibeach/booking-intake/internal/config"
	"github.com/sarabibeach/booking-intake/internal/errs"
	"github.com/sarabibeach/booking-intake/internal/lib/utils"
	"github.com/sarabibeach/booking-intake/internal/model"
	"github.com/sarabibeach/booking-intake/internal/remoteerr"
)

func newSubmitCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Run one intake from a JSON file and print the result",
		Long: "Reads a booking in the same JSON shape the forms post (\"-\" reads stdin),\n" +
			"runs the intake against the configured store and prints the response body.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			req, err := readBooking(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			return submit(cmd.Context(), cfg, req, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "booking JSON file, or - for stdin")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readBooking(stdin io.Reader, file string) (*model.BookingRequest, error) {
	var r io.Reader = stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, errors.Wrap(err, "open booking file")
		}
		defer f.Close()
		r = f
	}

	req := &model.BookingRequest{}
	if err := json.NewDecoder(r).Decode(req); err != nil {
		return nil, errors.Wrap(err, "decode booking file")
	}

	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid booking")
	}

	return req, nil
}

// submit prints the same body the HTTP route would answer with and fails
// when the intake did.
func submit(ctx context.Context, cfg *config.Config, req *model.BookingRequest, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = a.Close(closeCtx)
	}()

	ctx = a.Logger.WithContext(ctx)

	result, err := a.Services.Intake.Submit(ctx, req)
	if err != nil {
		var httpErr *errs.HTTPError
		if errors.As(remoteerr.HandleError(err), &httpErr) {
			_ = utils.PrintJSON(out, httpErr)
		}
		return fmt.Errorf("intake failed: %w", err)
	}

	return utils.PrintJSON(out, map[string]interface{}{
		"success": true,
		"id":      result.CustomerID,
	})
}
