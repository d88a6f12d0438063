package places

import (
	"strconv"

	"github.com/tidwall/gjson"

	"places_reviewcheck/internal/domain"
)

/********** path registries (one per API family) **********/

// field -> gjson path inside one object of that API's response.
var legacyPaths = map[string]string{
	"ref":          "place_id",
	"name":         "name",
	"address":      "formatted_address",
	"rating":       "rating",
	"rating_count": "user_ratings_total",
	"reviews":      "reviews",

	"review.author":   "author_name",
	"review.rating":   "rating",
	"review.text":     "text",
	"review.relative": "relative_time_description",
	"review.time":     "time",
}

var v1Paths = map[string]string{
	"ref":          "id",
	"name":         "displayName.text",
	"address":      "formattedAddress",
	"rating":       "rating",
	"rating_count": "userRatingCount",
	"reviews":      "reviews",

	"review.author":   "authorAttribution.displayName",
	"review.rating":   "rating",
	"review.text":     "text.text",
	"review.relative": "relativePublishTimeDescription",
	"review.time":     "publishTime",
}

/********** tiny helpers **********/

func present(r gjson.Result) bool { return r.Exists() && r.Type != gjson.Null }

// optStr returns nil only when the path is absent; "" is kept.
func optStr(obj gjson.Result, path string) *string {
	v := obj.Get(path)
	if !present(v) {
		return nil
	}
	s := v.String()
	return &s
}

func optFloat(obj gjson.Result, path string) *float64 {
	v := obj.Get(path)
	switch v.Type {
	case gjson.Number:
		f := v.Float()
		return &f
	case gjson.String:
		if f, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return &f
		}
	}
	return nil
}

func optInt(obj gjson.Result, path string) *int64 {
	v := obj.Get(path)
	switch v.Type {
	case gjson.Number:
		n := v.Int()
		return &n
	case gjson.String:
		if n, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return &n
		}
	}
	return nil
}

// optStamp keeps the timestamp as sent: integer seconds or an RFC3339 string.
func optStamp(obj gjson.Result, path string) *string {
	v := obj.Get(path)
	switch v.Type {
	case gjson.Number:
		s := strconv.FormatInt(v.Int(), 10)
		return &s
	case gjson.String:
		s := v.String()
		return &s
	}
	return nil
}

/********** mappers **********/

func mapCandidate(obj gjson.Result, paths map[string]string) domain.Candidate {
	return domain.Candidate{
		Ref:     domain.PlaceRef(obj.Get(paths["ref"]).String()),
		Name:    optStr(obj, paths["name"]),
		Address: optStr(obj, paths["address"]),
	}
}

func mapDetails(obj gjson.Result, paths map[string]string) domain.PlaceDetails {
	return domain.PlaceDetails{
		Name:        optStr(obj, paths["name"]),
		Address:     optStr(obj, paths["address"]),
		Rating:      optFloat(obj, paths["rating"]),
		RatingCount: optInt(obj, paths["rating_count"]),
		Reviews:     mapReviews(obj.Get(paths["reviews"]), paths),
	}
}

// mapReviews keeps every element of the reviews array, in order, and
// never touches the text.
func mapReviews(arr gjson.Result, paths map[string]string) []domain.Review {
	if !arr.IsArray() {
		return nil
	}
	items := arr.Array()
	out := make([]domain.Review, 0, len(items))
	for _, r := range items {
		out = append(out, domain.Review{
			Author:       optStr(r, paths["review.author"]),
			Rating:       optFloat(r, paths["review.rating"]),
			Text:         optStr(r, paths["review.text"]),
			RelativeTime: optStr(r, paths["review.relative"]),
			Timestamp:    optStamp(r, paths["review.time"]),
			RawJSON:      []byte(r.Raw),
		})
	}
	return out
}

func mapLegacyCandidate(obj gjson.Result) domain.Candidate { return mapCandidate(obj, legacyPaths) }
func mapV1Candidate(obj gjson.Result) domain.Candidate     { return mapCandidate(obj, v1Paths) }
func mapLegacyDetails(obj gjson.Result) domain.PlaceDetails { return mapDetails(obj, legacyPaths) }
func mapV1Details(obj gjson.Result) domain.PlaceDetails     { return mapDetails(obj, v1Paths) }
