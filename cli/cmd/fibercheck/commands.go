package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fibermonitor/fibermonitor/pkg/fiber"
	"github.com/fibermonitor/fibermonitor/pkg/form"
	"github.com/fibermonitor/fibermonitor/pkg/rpc"
)

// apiKeyEnv is read when --api-key is not given.
const apiKeyEnv = "FIBER_API_KEY"

// --- assess ---

type assessOptions struct {
	sub       form.Submission
	json      bool
	server    string
	grpcAddr  string
	apiKey    string
	keyHeader string
	timeout   time.Duration
}

func newAssessCmd(u *ui) *cobra.Command {
	var (
		o        assessOptions
		age      string
		sex      string
		calories string
		fiberG   string
		fruit    string
		grain    string
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess current fiber intake against a suggested target",
		Long: `Assess current fiber intake against a suggested target.

Examples:
  fibercheck assess --age 30 --sex male --fiber 20
  fibercheck assess --age 45 --sex female --calories 2000 --fiber 28 --whole-grains plenty
  fibercheck assess --age 62 --fiber 18 --json
  fibercheck assess --age 30 --fiber 20 --server http://localhost:8080
  fibercheck assess --age 30 --fiber 20 --grpc localhost:50051`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.server != "" && o.grpcAddr != "" {
				return fmt.Errorf("--server and --grpc are mutually exclusive")
			}
			if o.apiKey == "" {
				o.apiKey = os.Getenv(apiKeyEnv)
			}
			o.sub = form.Submission{
				Age:          form.Value(age),
				Sex:          form.Value(sex),
				Calories:     form.Value(calories),
				CurrentFiber: form.Value(fiberG),
				FruitVeg:     form.Value(fruit),
				WholeGrains:  form.Value(grain),
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
			defer cancel()

			a, err := runAssess(ctx, o)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if o.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(a)
			}
			u.printAssessment(out, a)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&age, "age", "", "age in years (16 to 130)")
	f.StringVar(&sex, "sex", string(fiber.SexFemale), "male | female | other")
	f.StringVar(&calories, "calories", "", "optional daily calorie estimate (kcal, above 600)")
	f.StringVar(&fiberG, "fiber", "", "current daily fiber intake in grams")
	f.StringVar(&fruit, "fruit-veg", string(fiber.FrequencySome), "fruit and vegetable servings: little | some | plenty")
	f.StringVar(&grain, "whole-grains", string(fiber.FrequencySome), "whole grain servings: little | some | plenty")
	f.BoolVar(&o.json, "json", false, "print the assessment as JSON")
	f.StringVar(&o.server, "server", "", "assess via a fibermonitor HTTP server at this base URL")
	f.StringVar(&o.grpcAddr, "grpc", "", "assess via a fibermonitor gRPC endpoint (host:port)")
	f.StringVar(&o.apiKey, "api-key", "", "API key for the server (default $"+apiKeyEnv+")")
	f.StringVar(&o.keyHeader, "api-key-header", rpc.DefaultHeader, "header carrying the API key")
	f.DurationVar(&o.timeout, "timeout", 30*time.Second, "overall request timeout")
	return cmd
}

// runAssess picks the local engine, the HTTP API or the gRPC service.
func runAssess(ctx context.Context, o assessOptions) (fiber.Assessment, error) {
	switch {
	case o.server != "":
		c := newAPIClient(o.server, o.apiKey, o.keyHeader)
		return c.assess(ctx, o.sub)

	case o.grpcAddr != "":
		c, err := rpc.Dial(ctx, o.grpcAddr, rpc.Options{APIKey: o.apiKey, Header: o.keyHeader})
		if err != nil {
			return fiber.Assessment{}, err
		}
		defer c.Close()
		a, err := c.Assess(ctx, o.sub)
		if err != nil {
			if rej, ok := rpc.AsRejection(err); ok {
				return fiber.Assessment{}, rej
			}
			return fiber.Assessment{}, fmt.Errorf("grpc %s: %s", o.grpcAddr, rpc.Message(err))
		}
		return *a, nil

	default:
		a, err := form.Assess(o.sub)
		if err != nil {
			var verr *form.ValidationError
			if errors.As(err, &verr) {
				return fiber.Assessment{}, fmt.Errorf("%s: %s", verr.Message, verr.Hint())
			}
			return fiber.Assessment{}, err
		}
		return a, nil
	}
}

// --- zones ---

func newZonesCmd(u *ui) *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "Show the intake-to-target ratio bands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u.printZones(cmd.OutOrStdout(), fiber.Bands())
			return nil
		},
	}
}
