package validators

import "go.mongodb.org/mongo-driver/bson"

var MessageValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"sender_id",
			"receiver_id",
			"text",
			"timestamp",
			"is_read",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"sender_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"receiver_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"text": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"translated_text": bson.M{
				"bsonType": "string",
			},

			"timestamp": bson.M{
				"bsonType": "string",
			},

			"is_read": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
