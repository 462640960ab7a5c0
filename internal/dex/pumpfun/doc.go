// Package pumpfun builds instructions for the Pump.fun bonding-curve program on Solana.
//
// The package is stateless: every call re-derives the program-derived addresses from its
// arguments, so builders may be called concurrently.
//
// Key Types and Functions:
//
//   - InstructionAccounts: every address a buy or sell references, in one struct.
//   - DeriveAccounts(): derives the accounts for a user, mint and trade mode.
//   - BuildBuyInstruction(): 16-account buy with an optional track-volume flag.
//   - BuildSellInstruction(): 14-account sell.
//
// Usage example:
//
//	ix, err := pumpfun.BuildBuyInstruction(user, mint, 1_000_000, 50_000_000, types.PresentTrue, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tx, err := solana.NewTransaction([]solana.Instruction{ix}, blockhash, solana.TransactionPayer(user))
package pumpfun
