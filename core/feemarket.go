package core

import "github.com/Sparrow2025/besu/core/types"

// EffectiveGasPrice returns the price per gas unit the sender actually
// pays. Without a base fee (pre-1559 blocks) it is the explicit gas price.
// With one, 1559-typed transactions pay min(maxFee, baseFee + maxPriority)
// while legacy and access-list transactions keep their explicit price.
func EffectiveGasPrice(tx *types.Transaction, baseFee *types.Wei) *types.Wei {
	if baseFee == nil || !tx.Supports1559FeeMarket() {
		return new(types.Wei).Set(tx.GasPrice())
	}
	effective := new(types.Wei).Add(baseFee, tx.GasTipCap())
	if feeCap := tx.GasFeeCap(); effective.Gt(feeCap) {
		effective.Set(feeCap)
	}
	return effective
}

// CoinbaseFeeCalculator computes the wei credited to the fee recipient for
// the gas a transaction used.
type CoinbaseFeeCalculator func(usedGas uint64, price, baseFee *types.Wei) *types.Wei

// FrontierCoinbaseFee credits the full price: usedGas * price.
func FrontierCoinbaseFee(usedGas uint64, price, baseFee *types.Wei) *types.Wei {
	return new(types.Wei).Mul(types.NewWei(usedGas), price)
}

// EIP1559CoinbaseFee credits only the priority portion: the base fee share
// is burnt. usedGas * (price - baseFee).
func EIP1559CoinbaseFee(usedGas uint64, price, baseFee *types.Wei) *types.Wei {
	priority := new(types.Wei)
	if price.Gt(baseFee) {
		priority.Sub(price, baseFee)
	}
	return new(types.Wei).Mul(types.NewWei(usedGas), priority)
}
