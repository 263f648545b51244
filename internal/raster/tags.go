package raster

// Baseline TIFF tags (TIFF 6.0 §8).
const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagPhotometric     = 262
	tagStripOffsets    = 273
	tagSamplesPerPixel = 277
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagPlanarConfig    = 284
	tagPredictor       = 317
	tagTileWidth       = 322
	tagTileLength      = 323
	tagTileOffsets     = 324
	tagTileByteCounts  = 325
	tagSampleFormat    = 339
)

// GeoTIFF tags (GeoTIFF 1.0 §2.6.1) plus the GDAL nodata extension.
const (
	tagModelPixelScale     = 33550
	tagModelTiepoint       = 33922
	tagModelTransformation = 34264
	tagGeoKeyDirectory     = 34735
	tagGeoDoubleParams     = 34736
	tagGeoAsciiParams      = 34737
	tagGDALNoData          = 42113
)

// GeoTIFF keys (GeoTIFF 1.0 §6.2). Keys live inside the GeoKeyDirectory
// tag, not in the IFD itself.
const (
	gtModelTypeGeoKey          = 1024
	gtRasterTypeGeoKey         = 1025
	gtCitationGeoKey           = 1026
	geographicTypeGeoKey       = 2048
	geogCitationGeoKey         = 2049
	geogAngularUnitsGeoKey     = 2054
	projectedCSTypeGeoKey      = 3072
	projCoordTransGeoKey       = 3075
	projLinearUnitsGeoKey      = 3076
	projStdParallel1GeoKey     = 3078
	projStdParallel2GeoKey     = 3079
	projNatOriginLongGeoKey    = 3080
	projNatOriginLatGeoKey     = 3081
	projFalseEastingGeoKey     = 3082
	projFalseNorthingGeoKey    = 3083
	projFalseOriginLongGeoKey  = 3084
	projCenterLongGeoKey       = 3088
	projCenterLatGeoKey        = 3089
	projScaleAtNatOriginGeoKey = 3092
	projStraightVertPoleGeoKey = 3095
)

// GTModelTypeGeoKey values.
const (
	modelTypeProjected  = 1
	modelTypeGeographic = 2
)

// ProjCoordTransGeoKey values for the coordinate transformations this
// reader can assemble a proj-string for.
const (
	ctTransverseMercator = 1
	ctMercator           = 7
	ctLambertAzimEqArea  = 10
	ctAlbersEqualArea    = 11
	ctPolarStereographic = 15
)

// TIFF field types (TIFF 6.0 §2, "Types").
const (
	typeByte     = 1
	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5
	typeSByte    = 6
	typeSShort   = 8
	typeSLong    = 9
	typeFloat    = 11
	typeDouble   = 12
)

// typeSize maps a TIFF field type to its size in bytes. Unknown types map
// to 0 and are skipped by the IFD walker.
var typeSize = map[uint16]int{
	typeByte:     1,
	typeASCII:    1,
	typeShort:    2,
	typeLong:     4,
	typeRational: 8,
	typeSByte:    1,
	7:            1, // UNDEFINED
	typeSShort:   2,
	typeSLong:    4,
	10:           8, // SRATIONAL
	typeFloat:    4,
	typeDouble:   8,
}

// Compression schemes. The floating-point strip decoder handles None and
// Deflate; integer imagery is handed to the x/image/tiff decoder, which
// covers the wider baseline set (LZW, PackBits, Deflate).
const (
	compressionNone       = 1
	compressionLZW        = 5
	compressionDeflate    = 8
	compressionPackBits   = 32773
	compressionDeflateOld = 32946
)

// SampleFormat tag values.
const (
	sampleFormatUnsigned = 1
	sampleFormatSigned   = 2
	sampleFormatFloat    = 3
)

const (
	planarConfigContiguous = 1

	predictorNone          = 1
	predictorHorizontal    = 2
	predictorFloatingPoint = 3
)
