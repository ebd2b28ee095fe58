package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/paw-chain/cpamm/x/amm/types"
)

// AMMMetrics holds all Prometheus metrics for the AMM module
type AMMMetrics struct {
	// Operation outcomes, labelled by operation and status ("ok" or the error codespace/code)
	OperationsTotal *prometheus.CounterVec

	// Swap metrics
	SwapsTotal *prometheus.CounterVec
	SwapVolume *prometheus.CounterVec

	// Liquidity metrics
	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec
	PoolReserves     *prometheus.GaugeVec
	ShareSupply      *prometheus.GaugeVec
	PoolInvariant    *prometheus.GaugeVec

	// Pool metrics
	PoolsInitialized prometheus.Counter

	// Rejected mutations that would have decreased the constant product
	InvariantViolations *prometheus.CounterVec
}

var (
	ammMetricsOnce sync.Once
	ammMetrics     *AMMMetrics
)

// NewAMMMetrics creates and registers AMM metrics (singleton pattern)
func NewAMMMetrics() *AMMMetrics {
	ammMetricsOnce.Do(func() {
		ammMetrics = &AMMMetrics{
			OperationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cpamm",
					Subsystem: types.ModuleName,
					Name:      "operations_total",
					Help:      "Total pool operations by outcome",
				},
				[]string{"operation", "status"},
			),
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cpamm",
					Subsystem: types.ModuleName,
					Name:      "swaps_total",
					Help:      "Total number of swaps executed",
				},
				[]string{"pool", "asset_in", "asset_out"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cpamm",
					Subsystem: types.ModuleName,
					Name:      "swap_volume_total",
					Help:      "Total swap input volume in base units",
				},
				[]string{"pool", "denom"},
			),
			LiquidityAdded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cpamm",
					Subsystem: types.ModuleName,
					Name:      "liquidity_added_total",
					Help:      "Total liquidity added to pools",
				},
				[]string{"pool", "denom"},
			),
			LiquidityRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cpamm",
					Subsystem: types.ModuleName,
					Name:      "liquidity_removed_total",
					Help:      "Total liquidity removed from pools",
				},
				[]string{"pool", "denom"},
			),
			PoolReserves: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "cpamm",
					Subsystem: types.ModuleName,
					Name:      "pool_reserves",
					Help:      "Current pool reserves",
				},
				[]string{"pool", "denom"},
			),
			ShareSupply: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "cpamm",
					Subsystem: types.ModuleName,
					Name:      "share_supply",
					Help:      "Outstanding pool shares",
				},
				[]string{"pool"},
			),
			PoolInvariant: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "cpamm",
					Subsystem: types.ModuleName,
					Name:      "pool_invariant",
					Help:      "Cached constant product of each pool",
				},
				[]string{"pool"},
			),
			PoolsInitialized: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "cpamm",
					Subsystem: types.ModuleName,
					Name:      "pools_initialized_total",
					Help:      "Total pools initialized",
				},
			),
			InvariantViolations: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "cpamm",
					Subsystem: types.ModuleName,
					Name:      "invariant_violations_total",
					Help:      "Operations rejected because the constant product would decrease",
				},
				[]string{"pool", "operation"},
			),
		}
	})
	return ammMetrics
}

// recordPool refreshes the state gauges of pool.
func (m *AMMMetrics) recordPool(pool types.Pool) {
	if m == nil {
		return
	}
	m.PoolReserves.WithLabelValues(pool.Address, pool.AssetA).Set(float64(pool.ReserveA))
	m.PoolReserves.WithLabelValues(pool.Address, pool.AssetB).Set(float64(pool.ReserveB))
	m.ShareSupply.WithLabelValues(pool.Address).Set(float64(pool.ShareSupply))
	m.PoolInvariant.WithLabelValues(pool.Address).Set(float64(pool.Invariant))
}

// recordOutcome counts an operation by its result.
func (m *AMMMetrics) recordOutcome(operation string, err error) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, outcomeLabel(err)).Inc()
}
