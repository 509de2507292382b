package payment

import (
	"context"
	"fmt"
	"log"

	"github.com/mindgarden/consultation/cmd/mg/render"
	"github.com/mindgarden/consultation/cmd/mg/rest"
	"github.com/mindgarden/consultation/cmd/mg/subcommands/common"
	apimappings "github.com/mindgarden/consultation/pkg/api/types/mappings"
	"github.com/mindgarden/consultation/pkg/domain"
	kargs "github.com/mindgarden/consultation/pkg/utils/args"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Method    *kargs.Flag[domain.PaymentMethod] `flag:"method" metavar:"CARD|BANK_TRANSFER|CASH" help:"How the client paid. Required."`
	Reference string                            `flag:"reference" metavar:"TEXT" help:"Receipt number or transaction id."`
	Amount    int64                             `flag:"amount" metavar:"AMOUNT" help:"Paid amount. Required."`
	Json      bool                              `flag:"json" help:"Write the result as JSON."`
}

const (
	ARG_MAPPING_ID = "MAPPING_ID"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Confirm the payment of a mapping.",
		Flag{
			Method: kargs.Parser(domain.AsPaymentMethod),
			Amount: -1,
		},
		flarc.Args{
			{
				Name: ARG_MAPPING_ID, Required: true,
				Help: "Id of the mapping paid",
			},
		},
		common.NewTask[Flag](Task),
		flarc.WithDescription(`
Confirm the payment of a PENDING_PAYMENT mapping. Only admins can confirm.

When the amount differs from the package price, the payment is still confirmed,
and a warning is shown.

Example
-------

	{{ .Command }} --method card --amount 500000 --reference R-2025-0001 12
`),
	)
}

func Task(
	ctx context.Context,
	logger *log.Logger,
	client rest.Client,
	cl flarc.Commandline[Flag],
	params []any,
) error {
	mappingId, err := domain.ParseMappingId(cl.Args()[ARG_MAPPING_ID][0])
	if err != nil {
		return fmt.Errorf("%w: %s: %w", flarc.ErrUsage, ARG_MAPPING_ID, err)
	}

	flags := cl.Flags()
	if !flags.Method.IsSet() {
		return fmt.Errorf("%w: --method is required", flarc.ErrUsage)
	}
	if flags.Amount < 0 {
		return fmt.Errorf("%w: --amount is required, and should not be negative", flarc.ErrUsage)
	}

	result, err := client.ConfirmPayment(ctx, int64(mappingId), apimappings.PaymentRequest{
		Method:    flags.Method.Value().String(),
		Reference: flags.Reference,
		Amount:    flags.Amount,
	})
	if err != nil {
		return err
	}
	if result.AmountMismatch {
		logger.Printf(
			"WARNING: paid amount %d differs from the package price %d",
			flags.Amount, result.Mapping.PackagePrice,
		)
	}
	logger.Printf("payment of mapping %d is confirmed", result.Mapping.MappingId)

	if flags.Json {
		return render.JSON(cl.Stdout(), result)
	}
	return render.Mapping(cl.Stdout(), result.Mapping)
}
