// Package models defines the core domain models for the arisan backend.
//
// # Documents
//
// The backend mirrors a document store: every model below is one document in a
// named collection (see storage.Collection*).
//   - Member: a family member who can join groups
//   - Group: a rotating-savings group with its membership and winner history
//   - ContributionSettings: per-month contribution amounts, keyed by MonthKey
//   - Payment: one member's contribution record for one group and month
//   - Expense: money paid out of the shared funds
//   - Announcement: a notice shown on the dashboard
//   - User: an account that can sign in to the dashboard
//
// # Conventions
//
// 1. Relationships are ID strings, never pointers.
// 2. Money is decimal.Decimal; amounts are never negative.
// 3. Timestamps are Unix seconds except Payment.DueDate, which anchors month math.
// 4. Documents that are read-modify-written in transactions carry a Version.
package models
