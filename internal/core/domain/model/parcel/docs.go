// Package parcel models the carrier's read-only view of shipments: parcels, the
// tabs they are listed under and the de-duplicated collection a reconciliation
// cycle works on.
package parcel
