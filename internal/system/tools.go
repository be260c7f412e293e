package system

// Tools holds the paths of the external analysis binaries. The paths are
// opaque configuration strings; defaults match the usual sleuthkit and
// coreutils install locations.
type Tools struct {
	Lister    string // partition table lister (mmls)
	Copier    string // byte-range copier (dd)
	Prober    string // filesystem prober (fsstat)
	Recoverer string // deleted-file recoverer (tsk_recover)
	Carver    string // block carver (scalpel)
	Hasher    string // hash tool (md5sum)
}

// DefaultTools returns the default tool locations
func DefaultTools() Tools {
	return Tools{
		Lister:    "/usr/bin/mmls",
		Copier:    "/bin/dd",
		Prober:    "/usr/bin/fsstat",
		Recoverer: "/usr/bin/tsk_recover",
		Carver:    "/usr/bin/scalpel",
		Hasher:    "/usr/bin/md5sum",
	}
}
