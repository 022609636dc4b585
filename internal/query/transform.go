package query

import "github.com/bingbr/League-API-datastore/internal/riot"

const (
	KeyRegion   = "region"
	KeyPlatform = "platform"
)

// RegionToPlatform rewrites a "region" key into "platform" unless a platform
// is already present.
func RegionToPlatform(v Values) error {
	raw, ok := v[KeyRegion]
	if !ok {
		return nil
	}
	delete(v, KeyRegion)
	if v.Has(KeyPlatform) {
		return nil
	}
	region, err := toRegion(raw)
	if err != nil {
		return &ValidationError{Keys: []string{KeyRegion}, Reason: ReasonTypeCoercion, Err: err}
	}
	v[KeyPlatform] = region.Platform()
	return nil
}

// AttachRegion adds the region of the normalized platform.
func AttachRegion(v Values) error {
	if platform, ok := v[KeyPlatform].(riot.Platform); ok {
		v[KeyRegion] = platform.Region()
	}
	return nil
}
