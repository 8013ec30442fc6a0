package validators

import "go.mongodb.org/mongo-driver/bson"

// Status is intentionally an open string here: the lifecycle manager accepts
// arbitrary status writes, so the schema must not constrain them.
var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"guide_id",
			"user_id",
			"date",
			"status",
			"total_price",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"guide_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"date": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"time": bson.M{
				"bsonType": "string",
			},

			"status": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"total_price": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"guests": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  50,
			},

			"tour_type": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},
		},
	},
}
