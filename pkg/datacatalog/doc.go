// Package datacatalog defines the metadata model synchronized into Google Cloud
// Data Catalog: entries, entry groups, tags, tag templates and search results,
// plus the resource-name helpers that address them.
//
// Values in this package are plain data. They carry no client state and are
// created fresh for every ingestion run; the remote catalog is the only
// durable store.
package datacatalog
