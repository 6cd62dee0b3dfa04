package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dcavise/SEEK-sub001/pkg/composables"
	"github.com/Dcavise/SEEK-sub001/pkg/configuration"
)

func connect(ctx context.Context) (context.Context, *pgxpool.Pool, error) {
	conf := configuration.Use()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return ctx, nil, withCode(exitDB, fmt.Errorf("connect database: %w", err))
	}
	return composables.WithPool(ctx, pool), pool, nil
}
