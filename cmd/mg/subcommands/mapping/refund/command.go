// Package refund provides commands giving sessions back for money:
// refund and terminate.
package refund

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/mindgarden/consultation/cmd/mg/render"
	"github.com/mindgarden/consultation/cmd/mg/rest"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/common"
	apimappings "github.com/mindgarden/consultation/pkg/api/types/mappings"
	"github.com/mindgarden/consultation/pkg/domain"
	"github.com/youta-t/flarc"
)

type RefundFlag struct {
	Sessions int    `flag:"sessions" metavar:"N" help:"Unused sessions to be refunded. Required."`
	Reason   string `flag:"reason" metavar:"TEXT" help:"Why refunded."`
	Json     bool   `flag:"json" help:"Write the refund as JSON."`
}

type TerminateFlag struct {
	Reason string `flag:"reason" metavar:"TEXT" help:"Why terminated."`
	Json   bool   `flag:"json" help:"Write the refund as JSON."`
}

const (
	ARG_MAPPING_ID = "MAPPING_ID"
)

func mappingArg(help string) flarc.Args {
	return flarc.Args{
		{Name: ARG_MAPPING_ID, Required: true, Help: help},
	}
}

func NewRefund() (flarc.Command, error) {
	return flarc.NewCommand(
		"Refund unused sessions of a mapping.",
		RefundFlag{},
		mappingArg("Id of the mapping to be refunded"),
		common.NewTask[RefundFlag](Refund),
		flarc.WithDescription(`
Refund unused sessions of a mapping. Only admins can refund.

The amount is prorated by the package price per session.
When no sessions are left after the refund, the mapping is terminated.
`),
	)
}

func NewTerminate() (flarc.Command, error) {
	return flarc.NewCommand(
		"Terminate a mapping, refunding all unused sessions.",
		TerminateFlag{},
		mappingArg("Id of the mapping to be terminated"),
		common.NewTask[TerminateFlag](Terminate),
		flarc.WithDescription(`
Terminate a mapping. Only admins can terminate.

Unused sessions are refunded, and the client can not book with the consultant anymore.
`),
	)
}

func parseMappingId(cl interface{ Args() map[string][]string }) (domain.MappingId, error) {
	id, err := domain.ParseMappingId(cl.Args()[ARG_MAPPING_ID][0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", flarc.ErrUsage, ARG_MAPPING_ID, err)
	}
	return id, nil
}

func Refund(
	ctx context.Context,
	logger *log.Logger,
	client rest.Client,
	cl flarc.Commandline[RefundFlag],
	params []any,
) error {
	mappingId, err := parseMappingId(cl)
	if err != nil {
		return err
	}
	flags := cl.Flags()
	if flags.Sessions <= 0 {
		return fmt.Errorf("%w: --sessions should be positive", flarc.ErrUsage)
	}

	refund, err := client.RefundMapping(ctx, int64(mappingId), apimappings.RefundRequest{
		Sessions: flags.Sessions,
		Reason:   flags.Reason,
	})
	if err != nil {
		return err
	}
	if flags.Json {
		return render.JSON(cl.Stdout(), refund)
	}
	return write(cl.Stdout(), refund)
}

func Terminate(
	ctx context.Context,
	logger *log.Logger,
	client rest.Client,
	cl flarc.Commandline[TerminateFlag],
	params []any,
) error {
	mappingId, err := parseMappingId(cl)
	if err != nil {
		return err
	}
	flags := cl.Flags()

	refund, err := client.TerminateMapping(ctx, int64(mappingId), flags.Reason)
	if err != nil {
		return err
	}
	logger.Printf("mapping %d is terminated", refund.MappingId)

	if flags.Json {
		return render.JSON(cl.Stdout(), refund)
	}
	return write(cl.Stdout(), refund)
}

func write(w io.Writer, r apimappings.Refund) error {
	_, err := fmt.Fprintf(w, "mapping %d: %d session(s) refunded, amount %d\n", r.MappingId, r.Sessions, r.Amount)
	return err
}
