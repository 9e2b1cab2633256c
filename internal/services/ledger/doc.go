/*
Package ledger manages gift wallet balances and reservation accounting.

Stored balance lives on the wallet row; reservation holds are pending
transactions. The available balance a user can spend is always

	available = stored balance - sum(|amount|) over pending reservations

Usage:

	svc := ledger.NewService(repo, cache, ledger.Config{}, metrics)

	view := svc.AvailableBalance(ctx, userID)
	cost := ledger.CalculateGiftCost(price)

	hold, err := svc.Reserve(ctx, userID, cost, &scheduleID, "Birthday gift")
	err = svc.Settle(ctx, hold.Reference)   // or svc.Release to cancel

Balance reads fail safe: when the wallet or its holds cannot be fetched,
AvailableBalance reports zero available funds with the Degraded flag set
instead of returning an error. An unreadable wallet must never be treated
as having unlimited funds.

State transitions:

  - Deposit completes: stored balance increases.
  - Reserve: pending hold recorded, stored balance unchanged.
  - Settle: hold completed, stored balance decreases by the held amount.
  - Release: hold cancelled, stored balance unchanged.
*/
package ledger
