// Copyright (c) 2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txrules provides functions that help establish whether or not a
transaction abides by the non-consensus rules enforced by relaying nodes, and
how much it should pay to be relayed.

Dust

An output is dust when its value is positive but below the dust limit
(DefaultDustLimit, 546 satoshi, unless configured otherwise).  Zero value
outputs are exempt: the only zero value outputs a data transaction carries are
OP_RETURN data carriers, which are unspendable anyway.  FilterDust drops dust
outputs and keeps the rest in order.

Fees

FeePolicy resolves the fee of a transaction.  An explicit fee always wins.
Transactions being signed are priced from a worst case size estimate (see
package txsizes) padded by a safety margin:

	fee = FeeForSerializeSize(rate, ceil(size * (100 + margin) / 100))

Everything else pays the flat DefaultFee.
*/
package txrules
