// Package snapshot holds labeled, time-stamped bundles of location records
// loaded from the two source systems.
//
// A snapshot owns the raw records of one time period: one GDOS directory feed
// per region plus the Zesty CMS location feed (and an optional side-channel
// score feed). Loads are all-or-nothing per label so a snapshot is never left
// partially populated across its region feeds.
//
// # Lookup Maps
//
// Lookup maps from string-normalized entity id to the matching record of each
// system are derived on demand from the raw records. GDOS records key by their
// "id" field; Zesty records by the nested "Column1.content.gdos_id" linking
// id. Records missing their id are skipped silently.
//
// # Usage
//
//	store := snapshot.NewStore(fetch.NewHTTPClient(30), logger)
//	if err := store.Load(ctx, "oct-2024", cfg.Sources("oct-2024")); err != nil {
//	    // nothing was installed for the label
//	}
//	maps, _ := store.LookupMaps("oct-2024")
package snapshot
