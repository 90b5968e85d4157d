package datacatalog

import (
	"fmt"
	"regexp"
)

// entryNamePattern splits an entry name on its first "/entries/" segment.
var entryNamePattern = regexp.MustCompile(`^(?P<entry_group_name>.+?)/entries/(?P<entry_id>.+)$`)

// LocationName returns projects/{project}/locations/{location}.
func LocationName(project, location string) string {
	return fmt.Sprintf("projects/%s/locations/%s", project, location)
}

// EntryGroupName returns projects/{p}/locations/{l}/entryGroups/{g}.
func EntryGroupName(project, location, entryGroupID string) string {
	return fmt.Sprintf("%s/entryGroups/%s", LocationName(project, location), entryGroupID)
}

// EntryName returns projects/{p}/locations/{l}/entryGroups/{g}/entries/{e}.
func EntryName(project, location, entryGroupID, entryID string) string {
	return EntryNameInGroup(EntryGroupName(project, location, entryGroupID), entryID)
}

// EntryNameInGroup returns {entryGroupName}/entries/{entryID}.
func EntryNameInGroup(entryGroupName, entryID string) string {
	return entryGroupName + "/entries/" + entryID
}

// TagTemplateName returns projects/{p}/locations/{l}/tagTemplates/{t}.
func TagTemplateName(project, location, templateID string) string {
	return fmt.Sprintf("%s/tagTemplates/%s", LocationName(project, location), templateID)
}

// ParseEntryName splits an entry name into its entry group name and entry id.
func ParseEntryName(name string) (entryGroupName, entryID string, ok bool) {
	m := entryNamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
