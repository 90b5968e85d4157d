package prepare

import (
	"strconv"

	"github.com/agentstation/catalogsync/pkg/constants"
	"github.com/agentstation/catalogsync/pkg/datacatalog"
)

// AssetIDField is the tag field holding the source system id of an asset.
const AssetIDField = "id"

// IDNamePairs maps "{user_specified_type}-{asset id}" to an entry name.
type IDNamePairs map[string]string

// Resolver fills relationship fields of assembled entries.
type Resolver func(entries []*datacatalog.AssembledEntryData, pairs IDNamePairs)

// FulfillTagFields indexes every entry by the asset id found in its tags and
// runs each resolver against the index.
func FulfillTagFields(entries []*datacatalog.AssembledEntryData, resolvers ...Resolver) {
	if len(entries) == 0 || len(resolvers) == 0 {
		return
	}
	pairs := BuildIDNamePairs(entries)
	for _, resolve := range resolvers {
		resolve(entries, pairs)
	}
}

// BuildIDNamePairs indexes entries by user specified type and asset id.
func BuildIDNamePairs(entries []*datacatalog.AssembledEntryData) IDNamePairs {
	pairs := make(IDNamePairs)
	for _, data := range entries {
		for _, tag := range data.Tags {
			field, ok := tag.Fields[AssetIDField]
			if !ok {
				continue
			}
			pairs[pairKey(data.Entry.UserSpecifiedType, assetID(field))] = data.Entry.Name
		}
	}
	return pairs
}

// MapRelatedEntry sets targetFieldID on every tag of data whose sourceFieldID
// references a known asset of relatedAssetType. The value is the console URL
// of the related entry.
func MapRelatedEntry(data *datacatalog.AssembledEntryData, relatedAssetType, sourceFieldID, targetFieldID string, pairs IDNamePairs) {
	for _, tag := range data.Tags {
		field, ok := tag.Fields[sourceFieldID]
		if !ok {
			continue
		}
		name, ok := pairs[pairKey(relatedAssetType, assetID(field))]
		if !ok {
			continue
		}
		SetStringField(tag, targetFieldID, RelatedEntryURL(name))
	}
}

// RelatedEntryURL returns the Data Catalog console URL of an entry.
func RelatedEntryURL(entryName string) string {
	return constants.ConsoleURLPrefix + entryName
}

func pairKey(assetType, id string) string {
	return assetType + "-" + id
}

// assetID renders the string value of field, or its double value as an integer.
func assetID(field datacatalog.TagField) string {
	if field.StringValue != "" {
		return field.StringValue
	}
	return strconv.FormatInt(int64(field.DoubleValue), 10)
}
