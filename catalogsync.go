// Package catalogsync synchronizes externally sourced metadata into Google
// Cloud Data Catalog.
//
// A run reconciles a batch of assembled entries and their tags against the
// remote catalog: entries and tags are created when missing, updated when
// their content changed and left untouched otherwise. Failures on single
// entries or tags are logged and counted without aborting the batch. An
// optional cleanup pass deletes the entries a search finds that the batch no
// longer contains, and run metrics can be reported to Cloud Monitoring.
//
// Example usage:
//
//	client, err := catalogsync.New(ctx,
//	    catalogsync.WithProject("my-project"),
//	    catalogsync.WithLocation("us-central1"),
//	    catalogsync.WithEntryGroup("sqlserver"),
//	    catalogsync.WithMonitoring(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m, err := manifest.Load("manifest.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.Sync(ctx, m, catalogsync.WithCleanupQuery("system=sqlserver"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d entries processed\n", result.Ingest.EntriesProcessed)
package catalogsync
