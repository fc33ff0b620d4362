package main

import (
	"context"
	"fmt"

	"github.com/tradewind/stockchat/src/chatapi"
)

// QuotaCmd prints the remaining chat quota.
type QuotaCmd struct{}

func (cmd *QuotaCmd) Run(cli *CLI) error {
	return withClient(cli, func(ctx context.Context, client *chatapi.Client) error {
		quota, err := client.GetQuota(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("quota: %d used, %d remaining of %d\n", quota.Used, quota.Remaining, quota.Total)
		return nil
	})
}
