package domain

import "strings"

const gidPrefix = "gid://shopify/"

// GlobalID builds the platform global identifier for a resource, e.g.
// GlobalID("InventoryItem", "111") -> "gid://shopify/InventoryItem/111".
func GlobalID(resource, id string) string {
	return gidPrefix + resource + "/" + strings.TrimSpace(id)
}

// LegacyID extracts the trailing numeric segment from a global identifier
// of the form <scheme>://<resource-type>/<numeric-id>. Plain ids pass
// through unchanged.
func LegacyID(gid string) string {
	gid = strings.TrimSpace(gid)
	if gid == "" {
		return ""
	}
	// Query parameters occasionally ride along on gids.
	if idx := strings.IndexByte(gid, '?'); idx >= 0 {
		gid = gid[:idx]
	}
	if idx := strings.LastIndexByte(gid, '/'); idx >= 0 {
		return gid[idx+1:]
	}
	return gid
}
