package persistence

import "github.com/jackc/pgx/v5/pgtype"

type pgTimestamp = pgtype.Timestamptz
