package mysql

const upsertHotelSQL = `
INSERT INTO hotels
  (hotel_id, name, city, country, star_rating, lat, lon,
   cleanliness, comfort, facilities, location_score, staff, value, raw)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name           = VALUES(name),
  city           = VALUES(city),
  country        = VALUES(country),
  star_rating    = VALUES(star_rating),
  lat            = VALUES(lat),
  lon            = VALUES(lon),
  cleanliness    = VALUES(cleanliness),
  comfort        = VALUES(comfort),
  facilities     = VALUES(facilities),
  location_score = VALUES(location_score),
  staff          = VALUES(staff),
  value          = VALUES(value),
  raw            = VALUES(raw),
  updated_at     = CURRENT_TIMESTAMP
`

const getHotelSQL = `
SELECT hotel_id, raw
FROM hotels
WHERE hotel_id = ?
`

const listHotelsSQL = `
SELECT hotel_id, name, city, country, star_rating
FROM hotels
ORDER BY hotel_id
`

// One reviewed row per hotel; re-review deletes before re-drafting, and an
// upsert keeps the write idempotent either way.
const upsertReviewedSQL = `
INSERT INTO reviewed
  (hotel_id, hotel_name, draft_summary, final_summary, status, review_timestamp, critique_issues)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  hotel_name       = VALUES(hotel_name),
  draft_summary    = VALUES(draft_summary),
  final_summary    = VALUES(final_summary),
  status           = VALUES(status),
  review_timestamp = VALUES(review_timestamp),
  critique_issues  = VALUES(critique_issues)
`

const getReviewedSQL = `
SELECT hotel_id, hotel_name, draft_summary, final_summary, status, review_timestamp, critique_issues
FROM reviewed
WHERE hotel_id = ?
`

const listReviewedSQL = `
SELECT hotel_id, hotel_name, draft_summary, final_summary, status, review_timestamp, critique_issues
FROM reviewed
ORDER BY review_timestamp, hotel_id
`

const deleteReviewedSQL = `
DELETE FROM reviewed WHERE hotel_id = ?
`

const resetReviewedSQL = `
DELETE FROM reviewed
`
