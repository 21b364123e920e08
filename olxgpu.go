// Package olxgpu scrapes graphics card offers from the OLX.pl classifieds
// marketplace. It walks the paginated search results, resolves every offer
// title to a canonical GPU model from a catalog and persists the resulting
// listings for price analysis.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, http/).
package olxgpu
