package validators

import "go.mongodb.org/mongo-driver/bson"

var MeetingRoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"capacity",
			"bookings",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 128,
			},

			"capacity": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  4,
			},

			"bookings": bson.M{
				"bsonType": "array",
				"items":    BookingValidator,
			},
		},
	},
}

var BookingValidator = bson.M{
	"bsonType": "object",
	"required": []string{
		"booking_id",
		"time_slot",
		"booker",
		"attendees",
	},

	"properties": bson.M{
		"booking_id": bson.M{
			"bsonType":  "string",
			"minLength": 1,
		},

		"time_slot": bson.M{
			"bsonType": "object",
			"required": []string{"start_time", "end_time"},
			"properties": bson.M{
				"start_time": bson.M{
					"bsonType": "date",
				},
				"end_time": bson.M{
					"bsonType": "date",
				},
			},
		},

		"booker": bson.M{
			"bsonType":  "string",
			"minLength": 1,
			"maxLength": 200,
		},

		"attendees": bson.M{
			"bsonType": []string{"int", "long"},
			"minimum":  4,
		},
	},
}
