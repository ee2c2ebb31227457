package geometry

import (
	"dealscout/internal/models"

	"github.com/paulmach/orb/geojson"
)

// ComparablesFeatureCollection renders the subject and its adjusted
// comparables as GeoJSON points for map review. Entries without
// coordinates are skipped.
func ComparablesFeatureCollection(subject models.SubjectProperty, arv models.ArvResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if subject.HasCoordinates() {
		feature := geojson.NewFeature(Point(*subject.Latitude, *subject.Longitude))
		feature.Properties = geojson.Properties{
			"role":          "subject",
			"listing_id":    subject.ListingID,
			"property_type": subject.PropertyType,
			"list_price":    models.Value(subject.ListPrice),
			"arv":           arv.ARV,
			"confidence":    string(arv.Confidence),
		}
		fc.Append(feature)
	}

	for _, adj := range arv.Comparables {
		comp := adj.Comparable
		if !comp.HasCoordinates() {
			continue
		}
		feature := geojson.NewFeature(Point(*comp.Latitude, *comp.Longitude))
		feature.Properties = geojson.Properties{
			"role":           "comparable",
			"listing_id":     comp.ListingID,
			"property_type":  comp.PropertyType,
			"close_price":    comp.ClosePrice,
			"adjusted_price": adj.AdjustedPrice,
			"weight":         adj.Weight,
			"distance_miles": comp.DistanceMiles,
		}
		if comp.CloseDate != nil {
			feature.Properties["close_date"] = comp.CloseDate.Format("2006-01-02")
		}
		fc.Append(feature)
	}

	return fc
}
