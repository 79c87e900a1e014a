package manifest

// Applies reports whether the library is used on the manifest OS osName.
// Without rules a library applies everywhere. Otherwise the last matching rule decides,
// and a library no rule matches is excluded.
func (l Library) Applies(osName string) bool {
	if len(l.Rules) == 0 {
		return true
	}
	allowed := false
	for _, rule := range l.Rules {
		if rule.matches(osName) {
			allowed = rule.Action == ActionAllow
		}
	}
	return allowed
}

// NativeFor reports whether the library carries native code for osName, which is the case
// when its first rule allows that OS by name and the rule list as a whole applies to it.
func (l Library) NativeFor(osName string) bool {
	if len(l.Rules) == 0 || l.Rules[0].OS == nil {
		return false
	}
	first := l.Rules[0]
	return first.Action == ActionAllow && first.OS.Name == osName && l.Applies(osName)
}

func (r Rule) matches(osName string) bool {
	return r.OS == nil || r.OS.Name == "" || r.OS.Name == osName
}

// LatestRelease returns the entry of the newest release, or false if it is not listed.
func (vl *VersionList) LatestRelease() (VersionEntry, bool) {
	return vl.Find(vl.Latest.Release)
}

// LatestSnapshot returns the entry of the newest snapshot, or false if it is not listed.
func (vl *VersionList) LatestSnapshot() (VersionEntry, bool) {
	return vl.Find(vl.Latest.Snapshot)
}

// Find returns the entry with the given id.
func (vl *VersionList) Find(id string) (VersionEntry, bool) {
	for _, v := range vl.Versions {
		if v.ID == id {
			return v, true
		}
	}
	return VersionEntry{}, false
}

// ByType returns the entries of one version type in list order.
func (vl *VersionList) ByType(versionType string) []VersionEntry {
	var out []VersionEntry
	for _, v := range vl.Versions {
		if v.Type == versionType {
			out = append(out, v)
		}
	}
	return out
}
