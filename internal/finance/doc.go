// Package finance resolves monthly contribution settings and reconciles a
// group's payment records against them.
//
// Reconciliation is idempotent and additive: it creates missing payments and
// re-prices existing ones, preserving paid flags, but never deletes a payment
// of a member who left the group and never prunes a category from a record it
// does not otherwise need to touch.
package finance
