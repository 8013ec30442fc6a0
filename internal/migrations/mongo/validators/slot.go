package validators

import "go.mongodb.org/mongo-driver/bson"

var SlotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"guide_id",
			"date",
			"status",
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

			"date": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"available",
					"busy",
					"off",
				},
			},
		},
	},
}
