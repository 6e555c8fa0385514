package types

// Money is an amount in minor currency units. The platform operates in a
// single currency, so no currency code travels with the value.
type Money int64
