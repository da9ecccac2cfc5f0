// Package timeouts defines shared timeout constants used by riskodds commands.
package timeouts

import "time"

// OTelShutdown caps the time spent flushing spans when a command exits.
const OTelShutdown = 5 * time.Second

// StoreBusy is how long a SQLite connection waits on a locked database.
const StoreBusy = 5 * time.Second
