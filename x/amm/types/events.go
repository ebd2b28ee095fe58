package types

// Event types for the AMM module
const (
	EventTypePoolInitialized = "amm_pool_initialized"
	EventTypeAddLiquidity    = "amm_add_liquidity"
	EventTypeRemoveLiquidity = "amm_remove_liquidity"
	EventTypeSwap            = "amm_swap"

	AttributeKeyPool        = "pool"
	AttributeKeyAuthority   = "authority"
	AttributeKeyAssetA      = "asset_a"
	AttributeKeyAssetB      = "asset_b"
	AttributeKeyShareAsset  = "share_asset"
	AttributeKeyProvider    = "provider"
	AttributeKeyTrader      = "trader"
	AttributeKeyAmountA     = "amount_a"
	AttributeKeyAmountB     = "amount_b"
	AttributeKeyShares      = "shares"
	AttributeKeyAssetIn     = "asset_in"
	AttributeKeyAssetOut    = "asset_out"
	AttributeKeyAmountIn    = "amount_in"
	AttributeKeyAmountOut   = "amount_out"
	AttributeKeyInvariant   = "invariant"
	AttributeKeyShareSupply = "share_supply"
)
