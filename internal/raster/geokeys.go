package raster

import (
	"fmt"
)

// epsgUserDefined is the GeoTIFF marker for "parameters given by
// individual keys instead of a code".
const epsgUserDefined = 32767

// CRSInfo describes the coordinate reference system declared by a raster.
type CRSInfo struct {
	// ModelType distinguishes projected from geographic rasters.
	// Zero means the file declares no CRS at all.
	ModelType int

	// EPSG is the declared code of the CRS, or 0 when none is declared.
	EPSG int

	// ProjString describes the CRS as a proj-string assembled from the
	// GeoKeys. Empty when nothing could be assembled.
	ProjString string

	// CentralMeridian is the longitude of origin of a projected CRS,
	// valid only when HasCentralMeridian is set.
	CentralMeridian    float64
	HasCentralMeridian bool

	// Citation is the human-readable CRS name, when the file carries one.
	Citation string
}

// Geographic reports whether raster coordinates are already lon/lat.
func (c CRSInfo) Geographic() bool { return c.ModelType == modelTypeGeographic }

// crsFromGeoKeys interprets a decoded GeoKey directory.
//
// Well-known EPSG codes get exact proj-strings. Otherwise the projection
// parameters are assembled from the individual keys, and as a last resort
// the bare EPSG code is forwarded for the projection library to resolve.
func crsFromGeoKeys(keys *geoKeys) CRSInfo {
	var crs CRSInfo
	crs.ModelType = int(keys.short[gtModelTypeGeoKey])

	if cite, ok := keys.ascii[gtCitationGeoKey]; ok {
		crs.Citation = cite
	} else if cite, ok := keys.ascii[geogCitationGeoKey]; ok {
		crs.Citation = cite
	}

	if crs.ModelType == modelTypeGeographic {
		code := int(keys.short[geographicTypeGeoKey])
		if code != epsgUserDefined {
			crs.EPSG = code
		}
		switch code {
		case 4269:
			crs.ProjString = "+proj=longlat +datum=NAD83 +no_defs"
		case 4267:
			crs.ProjString = "+proj=longlat +datum=NAD27 +no_defs"
		default:
			// 4326 and anything undeclared: treat as WGS-84 lon/lat
			crs.ProjString = "+proj=longlat +datum=WGS84 +no_defs"
		}
		return crs
	}

	if crs.ModelType != modelTypeProjected {
		return crs
	}

	code := int(keys.short[projectedCSTypeGeoKey])
	if code != epsgUserDefined {
		crs.EPSG = code
	}

	switch {
	case code == 3857 || code == 900913:
		crs.ProjString = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +nadgrids=@null +no_defs"
		crs.CentralMeridian, crs.HasCentralMeridian = 0, true
		return crs
	case code >= 32601 && code <= 32660:
		zone := code - 32600
		crs.ProjString = fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", zone)
		crs.CentralMeridian, crs.HasCentralMeridian = float64(zone*6-183), true
		return crs
	case code >= 32701 && code <= 32760:
		zone := code - 32700
		crs.ProjString = fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", zone)
		crs.CentralMeridian, crs.HasCentralMeridian = float64(zone*6-183), true
		return crs
	case code == 3413:
		// NSIDC Sea Ice Polar Stereographic North
		crs.ProjString = "+proj=stere +lat_0=90 +lat_ts=70 +lon_0=-45 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs"
		crs.CentralMeridian, crs.HasCentralMeridian = -45, true
		return crs
	case code == 3031:
		// Antarctic Polar Stereographic
		crs.ProjString = "+proj=stere +lat_0=-90 +lat_ts=-71 +lon_0=0 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs"
		crs.CentralMeridian, crs.HasCentralMeridian = 0, true
		return crs
	}

	if ps, cm, ok := assembleProjection(keys); ok {
		crs.ProjString = ps
		crs.CentralMeridian, crs.HasCentralMeridian = cm, true
		return crs
	}

	if crs.EPSG != 0 {
		crs.ProjString = fmt.Sprintf("+init=epsg:%d", crs.EPSG)
	}
	return crs
}

// assembleProjection builds a proj-string from the per-parameter keys of a
// user-defined projected CRS. Only the coordinate transformations named in
// tags.go are supported; anything else is left for the EPSG fallback.
func assembleProjection(keys *geoKeys) (projString string, centralMeridian float64, ok bool) {
	ct, has := keys.short[projCoordTransGeoKey]
	if !has {
		return "", 0, false
	}

	// Longitude of origin: projection families disagree on which key
	// carries it, so take them in preference order.
	lon0, hasLon0 := keys.double[projCenterLongGeoKey]
	if !hasLon0 {
		lon0, hasLon0 = keys.double[projNatOriginLongGeoKey]
	}
	if !hasLon0 {
		lon0, hasLon0 = keys.double[projStraightVertPoleGeoKey]
	}
	if !hasLon0 {
		lon0, hasLon0 = keys.double[projFalseOriginLongGeoKey]
	}
	if !hasLon0 {
		lon0 = 0
	}

	lat0 := keys.double[projNatOriginLatGeoKey]
	if v, found := keys.double[projCenterLatGeoKey]; found {
		lat0 = v
	}
	x0 := keys.double[projFalseEastingGeoKey]
	y0 := keys.double[projFalseNorthingGeoKey]

	switch ct {
	case ctTransverseMercator:
		k := keys.double[projScaleAtNatOriginGeoKey]
		if k == 0 {
			k = 1
		}
		return fmt.Sprintf("+proj=tmerc +lat_0=%g +lon_0=%g +k=%g +x_0=%g +y_0=%g +datum=WGS84 +units=m +no_defs",
			lat0, lon0, k, x0, y0), lon0, true
	case ctMercator:
		return fmt.Sprintf("+proj=merc +lon_0=%g +x_0=%g +y_0=%g +datum=WGS84 +units=m +no_defs",
			lon0, x0, y0), lon0, true
	case ctPolarStereographic:
		latTS := keys.double[projNatOriginLatGeoKey]
		pole := 90.0
		if latTS < 0 {
			pole = -90.0
		}
		return fmt.Sprintf("+proj=stere +lat_0=%g +lat_ts=%g +lon_0=%g +x_0=%g +y_0=%g +datum=WGS84 +units=m +no_defs",
			pole, latTS, lon0, x0, y0), lon0, true
	case ctLambertAzimEqArea:
		return fmt.Sprintf("+proj=laea +lat_0=%g +lon_0=%g +x_0=%g +y_0=%g +datum=WGS84 +units=m +no_defs",
			lat0, lon0, x0, y0), lon0, true
	case ctAlbersEqualArea:
		lat1 := keys.double[projStdParallel1GeoKey]
		lat2 := keys.double[projStdParallel2GeoKey]
		return fmt.Sprintf("+proj=aea +lat_1=%g +lat_2=%g +lat_0=%g +lon_0=%g +x_0=%g +y_0=%g +datum=WGS84 +units=m +no_defs",
			lat1, lat2, lat0, lon0, x0, y0), lon0, true
	}
	return "", 0, false
}
