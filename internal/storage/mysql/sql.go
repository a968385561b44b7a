package mysql

// -----------------------------------------------------------------------------
// WRITE QUERIES
// -----------------------------------------------------------------------------

const insertReviewSQL = `
INSERT INTO reviews
  (attraction_id, user_id, content, rating, sentiment, sentiment_score)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const incrementReviewCountSQL = `
UPDATE attractions SET total_reviews = total_reviews + 1 WHERE id = ?
`

const updateSummarySQL = `
UPDATE attractions SET review_summary = ? WHERE id = ?
`

const upsertDestinationSQL = `
INSERT INTO destinations (id, name, image_url, description)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name        = VALUES(name),
  image_url   = VALUES(image_url),
  description = VALUES(description)
`

// review_summary and total_reviews belong to the review pipeline; seeding never touches them.
const upsertAttractionSQL = `
INSERT INTO attractions
  (id, destination_id, name, description, rating, visit_duration, best_time_to_visit, image_url)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  destination_id     = VALUES(destination_id),
  name               = VALUES(name),
  description        = VALUES(description),
  rating             = VALUES(rating),
  visit_duration     = VALUES(visit_duration),
  best_time_to_visit = VALUES(best_time_to_visit),
  image_url          = VALUES(image_url)
`

const upsertActivitySQL = `
INSERT INTO activities (id, name, image_url, description)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name        = VALUES(name),
  image_url   = VALUES(image_url),
  description = VALUES(description)
`

const insertUserSQL = `
INSERT INTO users (username, password_hash) VALUES (?, ?)
`

const insertItinerarySQL = `
INSERT INTO itineraries (user_id, destination, start_date, end_date, activities)
VALUES (?, ?, ?, ?, ?)
`

const insertItineraryAttractionSQL = `
INSERT INTO itinerary_attractions (itinerary_id, attraction_id, position) VALUES (?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const reviewColumns = `id, attraction_id, user_id, content, rating, sentiment, sentiment_score, created_at`

const getReviewSQL = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = ?`

// Newest first; id breaks ties inside one timestamp tick.
const listReviewsSQL = `
SELECT ` + reviewColumns + `
FROM reviews
WHERE attraction_id = ?
ORDER BY created_at DESC, id DESC
`

const attractionColumns = `
  a.id, a.destination_id, d.name, a.name, a.description, a.rating,
  a.visit_duration, a.best_time_to_visit, a.image_url, a.review_summary, a.total_reviews`

const getAttractionSQL = `
SELECT` + attractionColumns + `
FROM attractions a
JOIN destinations d ON d.id = a.destination_id
WHERE a.id = ?
`

// %s is ASC or DESC, never user input.
const findAttractionsByDestinationSQL = `
SELECT` + attractionColumns + `
FROM attractions a
JOIN destinations d ON d.id = a.destination_id
WHERE LOWER(d.name) = LOWER(?)
ORDER BY a.rating %s, a.id ASC
LIMIT ?
`

const findDestinationsByNameSQL = `
SELECT id, name, image_url, description
FROM destinations
WHERE LOWER(name) LIKE CONCAT('%%', LOWER(?), '%%') ESCAPE '\\'
ORDER BY name %s, id ASC
LIMIT ?
`

const listDestinationsPageSQL = `
SELECT id, name, image_url, description
FROM destinations
ORDER BY name ASC, id ASC
LIMIT ? OFFSET ?
`

const listActivitiesSQL = `
SELECT id, name, image_url, description FROM activities ORDER BY name ASC
`

const userColumns = `id, username, password_hash, created_at`

const getUserByUsernameSQL = `SELECT ` + userColumns + ` FROM users WHERE username = ?`
const getUserByIDSQL = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

const itineraryColumns = `id, user_id, destination, start_date, end_date, activities, created_at`

const getItinerarySQL = `SELECT ` + itineraryColumns + ` FROM itineraries WHERE id = ?`

const listItinerariesByUserSQL = `
SELECT ` + itineraryColumns + ` FROM itineraries WHERE user_id = ? ORDER BY created_at DESC, id DESC
`

const listItineraryAttractionsSQL = `
SELECT attraction_id FROM itinerary_attractions WHERE itinerary_id = ? ORDER BY position ASC
`
